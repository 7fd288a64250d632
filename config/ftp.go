package config

type FTPConfig struct {
	Host     string
	Username string
	Password string
	Port     int // 21 for FTP, 22 for SFTP unless set in the job file
}

// GetFTPConfig extrahiert die FTP/SFTP-Zugangsdaten aus dem Job
func (j JobConfig) GetFTPConfig() FTPConfig {
	port := j.Port
	if port == 0 {
		if j.Method == MethodSFTP {
			port = 22
		} else {
			port = 21
		}
	}
	return FTPConfig{
		Host:     j.Host,
		Username: j.User,
		Password: j.Credential,
		Port:     port,
	}
}
