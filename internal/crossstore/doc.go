// Package crossstore keeps users, posts, comments and tags consistent across
// the two stores that hold them.
//
// Store A owns users and posts, Store B owns comments, tags and the post-tag
// bridge. Nothing spans the two stores: references are checked once before a
// write, the bridge is maintained without a distributed transaction, and read
// views are stitched together in the application. Every component here is
// request scoped and holds no cache.
package crossstore
