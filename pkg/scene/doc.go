// Package scene holds the modeled objects and shared symbols of a site
// layout. A scene is produced by one evaluation of scene source and is not
// mutated afterwards; each evaluation produces a new scene.
package scene
