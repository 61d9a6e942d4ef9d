package utils

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// S3Deleter is the minimal slice of the S3 service cleanup needs.
type S3Deleter interface {
	DeleteS3Object(ctx context.Context, key string) (bool, error)
}

// RemoveLocalRaw removes the downloaded source file at downloadPath + s3RawKey.
func RemoveLocalRaw(downloadPath, s3RawKey string) error {
	fp, err := PathUtil(downloadPath, s3RawKey)
	if err != nil {
		return fmt.Errorf("construct raw file path: %w", err)
	}
	if err := os.Remove(fp); err != nil {
		return fmt.Errorf("remove raw file %q: %w", fp, err)
	}
	logrus.Debugf("removed local raw file: %s", fp)
	return nil
}

// RemoveLocalRendered removes the rendered output file derived from the raw key.
func RemoveLocalRendered(uploadPath, s3RawKey string) error {
	trimmed := strings.TrimPrefix(s3RawKey, "raw/")
	formatted := fmt.Sprintf("processed/%s", trimmed)

	fp, err := PathUtil(uploadPath, formatted)
	if err != nil {
		return fmt.Errorf("construct rendered file path: %w", err)
	}
	if err := os.Remove(fp); err != nil {
		return fmt.Errorf("remove rendered file %q: %w", fp, err)
	}
	logrus.Debugf("removed local rendered file: %s", fp)
	return nil
}

func DeleteS3Object(ctx context.Context, s3 S3Deleter, s3Key string) error {
	if _, err := s3.DeleteS3Object(ctx, s3Key); err != nil {
		return fmt.Errorf("delete s3 object %q: %w", s3Key, err)
	}
	logrus.Debugf("s3 object %s deleted", s3Key)
	return nil
}

// CleanupAll removes both local copies and the raw S3 object, collecting
// every failure instead of stopping at the first.
func CleanupAll(ctx context.Context, s3 S3Deleter, downloadPath, uploadPath, s3RawKey string) error {
	var errs []string

	if err := RemoveLocalRaw(downloadPath, s3RawKey); err != nil {
		logrus.Warnf("cleanup: %v", err)
		errs = append(errs, err.Error())
	}

	if err := RemoveLocalRendered(uploadPath, s3RawKey); err != nil {
		logrus.Warnf("cleanup: %v", err)
		errs = append(errs, err.Error())
	}

	if err := DeleteS3Object(ctx, s3, s3RawKey); err != nil {
		logrus.Warnf("cleanup: %v", err)
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %s", strings.Join(errs, " | "))
	}
	return nil
}
