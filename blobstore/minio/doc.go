// Package minio implements blobstore.BlobStore with the MinIO client, for
// MinIO itself and other S3-compatible servers such as Ceph or Garage.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil { ... }
//
//	store := minioblob.NewStore(client, "timestamps", "in/")
//
// Dial wraps the two calls above for the command line.
package minio
