// Package sizing decides how an object is split into download chunks and
// how many fetches run in parallel, based only on the object's total size.
//
// Both functions are pure: the same size always yields the same answer, so
// a download plan built from them is reproducible.
package sizing
