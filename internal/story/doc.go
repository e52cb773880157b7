// Package story loads story files and flattens their include graphs.
//
// A story is a YAML document naming an organization, an anchor date and a
// list of event specs. Stories may include other stories; Flatten walks the
// include graph depth-first, parent events before included events, and visits
// each file at most once per call so diamonds and cycles terminate.
//
// Every failure in this package is a *LoadError.
package story
