// Package compositor turns a timeline position into a frame.
//
// Composition happens in two stages. Compose is a pure function from
// (time, scene) to a display list: an ordered set of typed draw ops
// with no I/O and no randomness, so identical inputs always produce an
// identical list. Both the preview path and the export path consume
// the same list, which is what keeps preview and export pixel-aligned.
//
// The Rasterizer then paints a display list onto a CPU canvas. Image
// sources are resolved through an injected resolver, keeping the
// impure boundary out of Compose.
package compositor
