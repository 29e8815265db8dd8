// Package sticker turns an image with an alpha channel into a sticker: the
// subject gets a colored outline and a soft drop shadow traced around its
// non-transparent pixels, optionally on top of a flat background.
//
// # Pipeline
//
// Processing runs in four stages over an in-memory raster:
//
//  1. Decode and normalize the input to 8-bit non-premultiplied RGBA
//     (*image.NRGBA). Sources without alpha become fully opaque.
//  2. Optionally crop to the subject's bounding box plus padding, then
//     threshold the alpha channel into a binary opacity mask.
//  3. Dilate the mask by the border size, subtract the original mask to
//     isolate the border ring, blur the ring lightly for the border and
//     heavily for the shadow.
//  4. Alpha-composite background, shadow, border and subject, back to front,
//     and encode the result as PNG.
//
// # Rasters and Masks
//
// A raster is an *image.NRGBA whose bounds start at (0,0) and whose stride is
// exactly 4*width. A mask is an *image.Gray of the same size; 0 means absent
// and 255 means fully present. Every stage allocates fresh output buffers and
// never aliases its input, so a single invocation owns all of its memory.
//
// # Thread Safety
//
// Config is a value type and nothing in this package keeps global state.
// Independent invocations may run concurrently on separate goroutines. There
// are no cancellation points; callers that need a deadline must bound the
// invocation externally.
//
// # Errors
//
// Failures wrap one of ErrDecode, ErrInvalidMode, ErrEncode or ErrConfig and
// can be classified with errors.Is. A fully transparent input is not an error:
// cropping is skipped and the pipeline runs to completion.
package sticker
