// Package project holds the mutable editing aggregate: tracks, clips,
// and speakers behind validated operations.
//
// Every mutation validates its inputs against entity rules and the
// owning track's placement rules before touching state. A rejected
// mutation leaves the project exactly as it was.
package project
