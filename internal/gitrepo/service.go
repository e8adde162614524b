// Package gitrepo versions SOP documents, one repository per
// objective element code.
package gitrepo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const sopFileName = "sop.json"

// SOP is the versioned payload committed for every revision.
type SOP struct {
	Title         string `json:"title"`
	Version       string `json:"version"`
	EffectiveDate string `json:"effectiveDate"`
	Content       string `json:"content"`
}

// CommitInfo describes one revision in an SOP history.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	baseDir string
	lockMu  sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(baseDir string) *Service {
	return &Service{
		baseDir: baseDir,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Commit writes a new SOP revision, initializing the repository on the
// first commit for a code.
func (s *Service) Commit(code string, sop SOP, author, message string) (CommitInfo, error) {
	lock := s.codeLock(code)
	lock.Lock()
	defer lock.Unlock()

	path := s.repoPath(code)
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = s.initRepo(path)
	}
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open repo for %s: %w", code, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return CommitInfo{}, fmt.Errorf("open worktree: %w", err)
	}

	payload, err := json.MarshalIndent(sop, "", "  ")
	if err != nil {
		return CommitInfo{}, fmt.Errorf("marshal sop: %w", err)
	}
	if err := os.WriteFile(filepath.Join(path, sopFileName), append(payload, '\n'), 0o644); err != nil {
		return CommitInfo{}, fmt.Errorf("write sop file: %w", err)
	}
	if _, err := worktree.Add(sopFileName); err != nil {
		return CommitInfo{}, fmt.Errorf("git add sop: %w", err)
	}

	if message == "" {
		message = fmt.Sprintf("Revise SOP (version %s)", sop.Version)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: signature(author),
	})
	if err != nil {
		return CommitInfo{}, fmt.Errorf("commit sop: %w", err)
	}

	commitObj, err := repo.CommitObject(hash)
	if err != nil {
		return CommitInfo{}, fmt.Errorf("read commit object: %w", err)
	}
	return toCommitInfo(commitObj), nil
}

// Head returns the latest SOP revision for a code.
func (s *Service) Head(code string) (SOP, CommitInfo, error) {
	lock := s.codeLock(code)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(code))
	if err != nil {
		return SOP{}, CommitInfo{}, fmt.Errorf("open repo for %s: %w", code, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return SOP{}, CommitInfo{}, fmt.Errorf("resolve head: %w", err)
	}
	commitObj, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return SOP{}, CommitInfo{}, fmt.Errorf("load commit object: %w", err)
	}
	sop, err := readSOPFromCommit(commitObj)
	if err != nil {
		return SOP{}, CommitInfo{}, err
	}
	return sop, toCommitInfo(commitObj), nil
}

// GetByHash returns the SOP revision at a specific commit.
func (s *Service) GetByHash(code, hash string) (SOP, error) {
	lock := s.codeLock(code)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(code))
	if err != nil {
		return SOP{}, fmt.Errorf("open repo for %s: %w", code, err)
	}
	resolvedHash, err := resolveHash(repo, hash)
	if err != nil {
		return SOP{}, err
	}
	commitObj, err := repo.CommitObject(resolvedHash)
	if err != nil {
		return SOP{}, fmt.Errorf("read commit %s: %w", hash, err)
	}
	return readSOPFromCommit(commitObj)
}

// History lists revisions newest first. A code with no repository yet
// has an empty history, not an error.
func (s *Service) History(code string, limit int) ([]CommitInfo, error) {
	lock := s.codeLock(code)
	lock.Lock()
	defer lock.Unlock()

	repo, err := git.PlainOpen(s.repoPath(code))
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return []CommitInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open repo for %s: %w", code, err)
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve head: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	defer iter.Close()

	items := make([]CommitInfo, 0, limit)
	count := 0
	err = iter.ForEach(func(commitObj *object.Commit) error {
		items = append(items, toCommitInfo(commitObj))
		count++
		if limit > 0 && count >= limit {
			return io.EOF
		}
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("iterate log: %w", err)
	}
	return items, nil
}

func (s *Service) initRepo(path string) (*git.Repository, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create repo dir: %w", err)
	}
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("init repo: %w", err)
	}
	return repo, nil
}

// repoPath maps a code like AAC.1.a to a directory name; dots would
// read as hidden-ish path noise so they become dashes.
func (s *Service) repoPath(code string) string {
	return filepath.Join(s.baseDir, strings.ReplaceAll(code, ".", "-"))
}

func (s *Service) codeLock(code string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	lock, ok := s.locks[code]
	if ok {
		return lock
	}
	lock = &sync.Mutex{}
	s.locks[code] = lock
	return lock
}

func readSOPFromCommit(commitObj *object.Commit) (SOP, error) {
	file, err := commitObj.File(sopFileName)
	if err != nil {
		return SOP{}, fmt.Errorf("load sop file from commit: %w", err)
	}
	reader, err := file.Reader()
	if err != nil {
		return SOP{}, fmt.Errorf("open sop reader: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return SOP{}, fmt.Errorf("read sop bytes: %w", err)
	}

	var sop SOP
	if err := json.Unmarshal(raw, &sop); err != nil {
		return SOP{}, fmt.Errorf("decode commit sop: %w", err)
	}
	return sop, nil
}

func toCommitInfo(commitObj *object.Commit) CommitInfo {
	return CommitInfo{
		Hash:      commitObj.Hash.String()[:7],
		Message:   commitObj.Message,
		Author:    commitObj.Author.Name,
		CreatedAt: commitObj.Author.When,
	}
}

func signature(author string) *object.Signature {
	return &object.Signature{
		Name:  author,
		Email: fmt.Sprintf("%s@local.accredo.dev", sanitizeEmail(author)),
		When:  time.Now(),
	}
}

func sanitizeEmail(input string) string {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			out = append(out, r)
			continue
		}
		if r == ' ' || r == '-' || r == '_' {
			out = append(out, '.')
		}
	}
	if len(out) == 0 {
		return "user"
	}
	return string(out)
}

func resolveHash(repo *git.Repository, hash string) (plumbing.Hash, error) {
	if len(hash) == 40 {
		return plumbing.NewHash(hash), nil
	}
	resolved, err := repo.ResolveRevision(plumbing.Revision(hash))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve hash %s: %w", hash, err)
	}
	return *resolved, nil
}
