package services

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"dir-syncer/config"
)

// CommandRunner executes an external bulk-transfer tool.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec in the process working directory.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if len(output) > 0 {
		slog.Debug("Ausgabe des externen Programms", "programm", name, "ausgabe", string(output))
	}
	if err != nil {
		return fmt.Errorf("%s fehlgeschlagen: %w, output: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// scpDownloadArgs: -r -P <port> <user>@<host>:<remoteDir> <localDir>
func scpDownloadArgs(job config.JobConfig) []string {
	return []string{
		"-r",
		"-P", strconv.Itoa(job.Port),
		job.User + "@" + job.Host + ":" + job.RemoteDir,
		job.LocalDir,
	}
}

// scpUploadArgs: -r -P <port> <localDir> <user>@<host>:<remoteDir>
func scpUploadArgs(job config.JobConfig) []string {
	return []string{
		"-r",
		"-P", strconv.Itoa(job.Port),
		job.LocalDir,
		job.User + "@" + job.Host + ":" + job.RemoteDir,
	}
}

// wgetMirrorArgs builds the recursive FTP fetch. The port only shows up in the
// URL when it differs from 21.
func wgetMirrorArgs(job config.JobConfig) []string {
	host := job.Host
	if job.Port != 0 && job.Port != 21 {
		host += ":" + strconv.Itoa(job.Port)
	}
	return []string{
		"-rnH",
		"--ftp-user=" + job.User,
		"--ftp-password=" + job.Credential,
		"ftp://" + host + "/" + job.RemoteDir + "/",
	}
}

// redactArgs hides the FTP password before a command line is logged.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.HasPrefix(arg, "--ftp-password=") {
			arg = "--ftp-password=***"
		}
		out[i] = arg
	}
	return out
}
