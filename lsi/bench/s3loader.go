package bench

import (
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/grailbio/base/errors"

	"github.com/grailbio/lsi/lsi"
)

// LoadDatasetFromS3 downloads a cache file written by SaveDataset from an
// S3 bucket/key into localPath, then loads it with LoadDataset. This lets
// the benchmark harness share large generated datasets across machines
// without vendoring them into the repo, the same role the teacher's own
// tools reach for an S3-backed github.com/grailbio/base/file path for
// (e.g. bamprovider's input/index paths); this loader talks to S3
// directly with aws-sdk-go rather than through that abstraction, since the
// bench harness only ever needs plain whole-object download, not
// base/file's general read/write/list surface.
func LoadDatasetFromS3(bucket, key, localPath string) (lsi.Relation, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, errors.E(err, bucket, key)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return nil, errors.E(err, localPath)
	}
	defer f.Close()

	downloader := s3manager.NewDownloader(sess)
	if _, err := downloader.Download(f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return nil, errors.E(err, bucket, key)
	}
	if err := f.Close(); err != nil {
		return nil, errors.E(err, localPath)
	}

	return LoadDataset(localPath)
}

// SaveDatasetToS3 writes relation to localPath via SaveDataset, then
// uploads it to the given bucket/key so other benchmark runs can fetch it
// with LoadDatasetFromS3.
func SaveDatasetToS3(bucket, key, localPath string, relation lsi.Relation) error {
	if err := SaveDataset(localPath, relation); err != nil {
		return err
	}

	sess, err := session.NewSession()
	if err != nil {
		return errors.E(err, bucket, key)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return errors.E(err, localPath)
	}
	defer f.Close()

	uploader := s3manager.NewUploader(sess)
	if _, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return errors.E(err, bucket, key)
	}
	return nil
}
