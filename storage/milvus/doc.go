// Package milvus implements storage.VectorStore against a Milvus
// deployment using the v2 client.
//
// Collections are created with an auto-id Int64 primary key and a single
// float-vector field carrying an AUTOINDEX with the requested metric
// type. Dynamic fields are enabled so filename and caption ride alongside
// the vector without being part of the fixed schema.
package milvus
