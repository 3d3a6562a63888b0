// Package compose turns a sorted clip list into one side-by-side video.
//
// [BuildSpec] fixes the target frame from the first clip; [BuildFilterGraph]
// scales every clip to the target height, center-crops the ones that come
// out wider when the folder's category allows it, and stacks the results
// left to right. [Compositor] runs the graph through ffmpeg.
package compose
