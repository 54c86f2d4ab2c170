// SPDX-License-Identifier: MIT

package suffstat_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/latentree/suffstat"
)

func benchEngine(b *testing.B, eng suffstat.Engine) {
	d := randomData(b, 20000, 12, 42)
	vars := d.Variables()
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Compute(ctx, d, vars); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSequential(b *testing.B) { benchEngine(b, suffstat.Sequential{}) }

func BenchmarkParallel(b *testing.B) { benchEngine(b, suffstat.Parallel{}) }
