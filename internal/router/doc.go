// Package router maps route paths to page component functions.
//
// Pages are registered once during startup; the registry freezes at the
// first resolve and later registrations fail. Each page may name a layout,
// a wrapper component that receives the page body as a nested build
// function, so shells like sidebars render around every page that shares
// them.
//
// Navigation is a state write: the Context exposes the session route
// container, so reading the current path during a render subscribes the
// reading element to navigation and writing it schedules a rebuild.
package router
