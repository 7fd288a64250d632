package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Method selects how a job moves the directory tree.
type Method string

const (
	MethodSCP  Method = "scp"
	MethodFTP  Method = "ftp"
	MethodSFTP Method = "sftp"
	MethodS3   Method = "s3"
)

// Keys that every job file has to define.
var requiredKeys = []string{"user", "pw", "remote_dir", "ip", "method"}

// JobConfig describes a single sync job. It is only built by Load/Parse and
// passed around by value.
type JobConfig struct {
	Host       string
	Port       int
	User       string
	Credential string
	RemoteDir  string
	LocalDir   string
	Method     Method
	InitRepo   bool

	// s3 only
	SSL    bool
	Region string
}

// Address returns host:port, or just the host when no port is set.
func (j JobConfig) Address() string {
	if j.Port == 0 {
		return j.Host
	}
	return j.Host + ":" + strconv.Itoa(j.Port)
}

// Load reads and validates the job file at path.
func Load(path string) (JobConfig, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return JobConfig{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return JobConfig{}, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	values, err := parseKeyValues(f)
	if err != nil {
		return JobConfig{}, &ParseError{Path: path, Err: err}
	}

	return fromValues(values)
}

// Parse builds a JobConfig from key=value text.
func Parse(r io.Reader) (JobConfig, error) {
	values, err := parseKeyValues(r)
	if err != nil {
		return JobConfig{}, err
	}
	return fromValues(values)
}

// parseKeyValues reads lines of the form "key = value". Comment lines and lines
// without "=" are skipped; a repeated key overwrites the earlier value.
func parseKeyValues(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

func fromValues(values map[string]string) (JobConfig, error) {
	var missing []string
	for _, key := range requiredKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return JobConfig{}, &MissingKeysError{Keys: missing}
	}

	method := Method(strings.ToLower(values["method"]))
	switch method {
	case MethodSCP, MethodFTP, MethodSFTP, MethodS3:
	default:
		return JobConfig{}, &InvalidValueError{Key: "method", Value: values["method"]}
	}

	job := JobConfig{
		Host:       values["ip"],
		User:       values["user"],
		Credential: values["pw"],
		RemoteDir:  values["remote_dir"],
		LocalDir:   values["local_dir"],
		Method:     method,
		InitRepo:   values["git"] == "true",
		SSL:        values["ssl"] != "false",
		Region:     values["region"],
	}

	if job.LocalDir == "" {
		job.LocalDir = job.RemoteDir
	}

	if portStr, ok := values["port"]; ok && portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return JobConfig{}, &InvalidValueError{Key: "port", Value: portStr}
		}
		job.Port = port
	} else {
		job.Port = defaultPort(method)
	}

	return job, nil
}

// defaultPort returns 0 for s3, the endpoint is then used as given.
func defaultPort(method Method) int {
	switch method {
	case MethodFTP:
		return 21
	case MethodSCP, MethodSFTP:
		return 22
	default:
		return 0
	}
}
