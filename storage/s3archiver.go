/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Archiver mirrors committed day files into an S3 bucket, one object
// per day file path, as an advisory off-site copy. It is not a
// replication mechanism: a failed upload is logged and swallowed, never
// returned to the caller, since the filesystem backend remains the
// source of truth.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver builds an archiver from an already-loaded AWS config.
// Call it only when TIME_SERIES_FS_S3_BUCKET is set; a nil *S3Archiver
// is a valid no-op archiver (see Mirror).
func NewS3Archiver(ctx context.Context, bucket, prefix string) (*S3Archiver, error) {
	if bucket == "" {
		return nil, &ConfigError{Reason: "S3Archiver: empty bucket"}
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("chronostore: loading AWS config: %w", err)
	}
	return &S3Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Mirror uploads the full content of the day file at localPath to
// <prefix>/<relativePath> in the archive bucket. Nil receiver is a
// documented no-op so callers can hold an *S3Archiver unconditionally
// and skip the nil check at every call site.
func (a *S3Archiver) Mirror(ctx context.Context, relativePath, localPath string) {
	if a == nil {
		return
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		slog.Warn("chronostore: s3 archive read failed", "path", localPath, "err", err)
		return
	}

	key := relativePath
	if a.prefix != "" {
		key = a.prefix + "/" + relativePath
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		slog.Warn("chronostore: s3 archive upload failed", "path", localPath, "key", key, "err", err)
	}
}
