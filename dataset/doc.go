// Package dataset holds weighted discrete observations and the file loader.
//
// A Dataset is an ordered sequence of Instance rows over a fixed ordered variable schema.
// Each row carries one state per variable (or Missing) and a non-negative weight; identical
// rows are usually merged with summed weights. Datasets are immutable once built.
//
// Load(reg, path) dispatches on the file extension. Only ".csv" is registered:
//
//	a,b,c,weight
//	0,1,?,3
//	1,1,0,1
//
// Failures map onto the core taxonomy: directories and unknown extensions are
// invalid-argument, unreadable files are i/o.
package dataset
