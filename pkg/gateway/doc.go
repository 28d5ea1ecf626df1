// Package gateway is the boundary between the pipeline and the pixel compute routines.
//
// A Routine works on a flat, row-major Texture and is synchronous: it mutates the texture in place and calls the
// ProgressFunc it was given as it goes. Returning false from the ProgressFunc asks the routine to stop early. That
// boolean is the only way cancellation reaches a routine.
//
// The Gateway owns every texture it hands to a routine. Textures come from a BufferPool and are always returned to
// it, whatever the routine does.
package gateway
