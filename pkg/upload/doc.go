// Package upload sends exported images to the style-transfer backend.
//
// The backend runs as several interchangeable replicas, each reachable at
// https://<replica>.<domain>/style_transfer_bytes_and_upload_image. A
// [Client] makes up to three attempts per upload, picking a replica
// uniformly at random for every attempt:
//
//	c := upload.New(upload.WithLogger(logger))
//	res, err := c.Upload(ctx, upload.Job{Image: png, Prompt: "oil painting"})
//	if err != nil {
//	    // NETWORK_ERROR or HTTP_STATUS from the last attempt,
//	    // or INVALID_RESPONSE when the body was not JSON.
//	}
//	if res.Path != "" {
//	    // load the stylized image from res.Path
//	}
//
// # Request
//
// Each attempt is a multipart POST. The image travels as image_file
// (image.webp, image/webp). save_path, strength, canny and prompt are sent
// both as form fields and as query parameters, so either server-side
// parsing convention finds them. save_path is ai/<sanitized prompt>.webp.
//
// # Failures
//
// Transport errors and non-2xx responses fail the attempt and are retried
// immediately. A 2xx response whose body is not a JSON object ends the
// upload without further attempts. After the last attempt the last
// attempt's error is returned.
//
// # Replica avoidance
//
// [WithAvoidFailedReplicas] restricts later attempts of one upload to
// replicas that have not failed yet, as long as any remain. Selection
// stays uniform over the eligible set.
//
// # Caching
//
// With [WithCache], successful results are stored under a key derived
// from the image bytes, prompt, canny flag and strength.
package upload
