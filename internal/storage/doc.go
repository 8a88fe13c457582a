// Package storage provides the object store client used to publish processed
// media artifacts.
//
// Objects are named with a timestamp plus a short random suffix and uploaded
// to a named bucket with an optional folder prefix. Thumbnails live under a
// parallel thumbnails/ prefix. Primary upload failures are fatal to the
// operation; thumbnail failures are logged and tolerated.
package storage
