// Package execution times learning calls and tags their results for batch experiments.
//
// A Wrapper runs any LearnFunc, records wall-clock start and finish, assigns a UUID and
// the caller's sequence index, and returns an immutable Result. Errors of the wrapped call
// are returned untouched.
package execution
