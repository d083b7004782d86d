// Package s3 implements blobstore.BlobStore on an Amazon S3 bucket prefix.
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("timestamps/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Reads stream whole objects. Writes go through the multipart upload
// manager, so output of unknown length is uploaded as it is produced.
package s3
