package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPStore uploads objects to a remote image host over SSH. The remote
// directory is expected to be exposed by a plain web server under PublicURL.
type SFTPStore struct {
	Addr      string
	User      string
	Password  string
	RemoteDir string
	PublicURL string

	mu     sync.Mutex
	client *sftp.Client
	conn   *ssh.Client
}

func NewSFTPStore(host string, port int, user, password, remoteDir, publicURL string) *SFTPStore {
	return &SFTPStore{
		Addr:      fmt.Sprintf("%s:%d", host, port),
		User:      user,
		Password:  password,
		RemoteDir: strings.TrimRight(remoteDir, "/"),
		PublicURL: strings.TrimRight(publicURL, "/"),
	}
}

// getClient returns the cached sftp client, dialing on first use or after a
// connection loss.
func (s *SFTPStore) getClient() (*sftp.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		// cheap liveness probe
		if _, err := s.client.Getwd(); err == nil {
			return s.client, nil
		}
		s.client.Close()
		s.conn.Close()
		s.client = nil
		s.conn = nil
	}

	conn, err := ssh.Dial("tcp", s.Addr, &ssh.ClientConfig{
		User:            s.User,
		Auth:            []ssh.AuthMethod{ssh.Password(s.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // image host, credentials from config
	})
	if err != nil {
		return nil, errors.Wrap(err, "objstore: ssh dial")
	}
	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "objstore: sftp session")
	}
	s.conn = conn
	s.client = client
	return client, nil
}

func (s *SFTPStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	client, err := s.getClient()
	if err != nil {
		return "", err
	}
	rpath := s.RemoteDir + "/" + key
	if err := client.MkdirAll(path.Dir(rpath)); err != nil {
		return "", errors.Wrap(err, "objstore: sftp mkdir")
	}
	f, err := client.Create(rpath)
	if err != nil {
		return "", errors.Wrap(err, "objstore: sftp create")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = client.Remove(rpath)
		return "", errors.Wrap(err, "objstore: sftp write")
	}
	if err := f.Close(); err != nil {
		_ = client.Remove(rpath)
		return "", errors.Wrap(err, "objstore: sftp close")
	}
	return s.URL(key), nil
}

func (s *SFTPStore) Delete(ctx context.Context, key string) error {
	client, err := s.getClient()
	if err != nil {
		return err
	}
	if err := client.Remove(s.RemoteDir + "/" + key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "objstore: sftp remove")
	}
	return nil
}

func (s *SFTPStore) List(ctx context.Context) ([]string, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}
	var keys []string
	walker := client.Walk(s.RemoteDir)
	for walker.Step() {
		if walker.Err() != nil {
			continue
		}
		if walker.Stat().IsDir() {
			continue
		}
		rel := strings.TrimPrefix(walker.Path(), s.RemoteDir+"/")
		keys = append(keys, rel)
	}
	return keys, nil
}

func (s *SFTPStore) URL(key string) string {
	return s.PublicURL + "/" + key
}

// Close releases the cached SSH connection.
func (s *SFTPStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}
