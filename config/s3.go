package config

import "strings"

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	SSL       bool
	Region    string
	Bucket    string
	Prefix    string
}

// GetS3Config extrahiert die S3-Konfiguration aus dem Job. remote_dir wird als
// "bucket/prefix" gelesen.
func (j JobConfig) GetS3Config() S3Config {
	remote := strings.Trim(strings.ReplaceAll(j.RemoteDir, "\\", "/"), "/")
	bucket, prefix, _ := strings.Cut(remote, "/")
	return S3Config{
		Endpoint:  j.Address(),
		AccessKey: j.User,
		SecretKey: j.Credential,
		SSL:       j.SSL,
		Region:    j.Region,
		Bucket:    bucket,
		Prefix:    prefix,
	}
}
