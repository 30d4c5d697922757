// Package plant implements the plant collection: the per-user records
// tracked by Folium and the ownership-scoped operations over them.
//
// Every operation takes the owner username resolved by the auth session
// core; plants belonging to other users are invisible, and lookups that
// cross an ownership boundary report not-found rather than forbidden.
package plant
