// Package monitor runs the frame loop: frames come from a Source, go through
// the detection and measurement Pipeline, and the Report is handed to every
// Sink.
//
// Frames are processed one at a time, end to end, in source order. The loop
// holds no state between frames besides its counters, and cancellation is
// only observed between frames, so a frame that has started is always
// reported.
package monitor
