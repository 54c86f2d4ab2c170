package mst_test

import (
	"fmt"

	"github.com/katalvlaran/latentree/mst"
)

// ExampleKruskal links four cluster roots by the strongest pairwise dependence.
func ExampleKruskal() {
	g := mst.NewGraph()
	_ = g.AddEdge("h0", "h1", 0.40)
	_ = g.AddEdge("h0", "h2", 0.05)
	_ = g.AddEdge("h1", "h2", 0.30)
	_ = g.AddEdge("h2", "h3", 0.20)
	_ = g.AddEdge("h1", "h3", 0.10)

	edges, total, err := mst.Kruskal(g, mst.WithMaximum())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("Total: %.2f, Edges:", total)
	for _, e := range edges {
		fmt.Printf(" %s-%s", e.From, e.To)
	}
	fmt.Println()
	// Output: Total: 0.90, Edges: h0-h1 h1-h2 h2-h3
}

// ExamplePrim grows the same tree from h3; edges point away from the root.
func ExamplePrim() {
	g := mst.NewGraph()
	_ = g.AddEdge("h0", "h1", 0.40)
	_ = g.AddEdge("h0", "h2", 0.05)
	_ = g.AddEdge("h1", "h2", 0.30)
	_ = g.AddEdge("h2", "h3", 0.20)
	_ = g.AddEdge("h1", "h3", 0.10)

	edges, _, _ := mst.Prim(g, "h3", mst.WithMaximum())
	for _, e := range edges {
		fmt.Printf("%s->%s\n", e.From, e.To)
	}
	// Output:
	// h3->h2
	// h2->h1
	// h1->h0
}
