package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"accredo/api/internal/ai"
	"accredo/api/internal/authpw"
	"accredo/api/internal/compliance"
	"accredo/api/internal/config"
	"accredo/api/internal/gitrepo"
	"accredo/api/internal/remote"
	"accredo/api/internal/search"
	"accredo/api/internal/store"
	"accredo/api/internal/tracker"
)

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]store.User
	refresh  map[string]store.User
	edits    map[string][]byte
	editedBy map[string]string
	audits   []store.MergeAudit
	files    map[string]store.EvidenceFileRecord
	videos   map[string]store.VideoRecord
	sops     map[string]store.SOPDocumentRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]store.User{},
		refresh:  map[string]store.User{},
		edits:    map[string][]byte{},
		editedBy: map[string]string{},
		files:    map[string]store.EvidenceFileRecord{},
		videos:   map[string]store.VideoRecord{},
		sops:     map[string]store.SOPDocumentRecord{},
	}
}

func (f *fakeStore) CreateUser(_ context.Context, user store.User) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[strings.ToLower(email)]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (f *fakeStore) SaveRefreshSession(_ context.Context, tokenHash, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.ID == userID {
			f.refresh[tokenHash] = user
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) LookupRefreshSession(_ context.Context, tokenHash string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.refresh[tokenHash]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refresh, tokenHash)
	return nil
}

func (f *fakeStore) UpsertObjectiveEdit(_ context.Context, code string, patch []byte, editedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits[code] = patch
	f.editedBy[code] = editedBy
	return nil
}

func (f *fakeStore) ListObjectiveEdits(_ context.Context) ([]store.ObjectiveEdit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]store.ObjectiveEdit, 0, len(f.edits))
	for code, patch := range f.edits {
		out = append(out, store.ObjectiveEdit{ObjectiveCode: code, Patch: patch, EditedBy: f.editedBy[code]})
	}
	return out, nil
}

func (f *fakeStore) ListEvidenceFiles(_ context.Context, code string) ([]store.EvidenceFileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.EvidenceFileRecord
	for _, rec := range f.files {
		if rec.ObjectiveCode == code {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) ListVideos(_ context.Context, code string) ([]store.VideoRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.VideoRecord
	for _, rec := range f.videos {
		if rec.ObjectiveCode == code {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) ListTrainingMaterials(_ context.Context, _ string) ([]store.TrainingMaterialRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListSOPDocuments(_ context.Context, code string) ([]store.SOPDocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.SOPDocumentRecord
	for _, rec := range f.sops {
		if rec.ObjectiveCode == code {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertEvidenceFile(_ context.Context, rec store.EvidenceFileRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[rec.ID] = rec
	return nil
}

func (f *fakeStore) DeleteEvidenceFile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, id)
	return nil
}

func (f *fakeStore) InsertVideo(_ context.Context, rec store.VideoRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[rec.ID] = rec
	return nil
}

func (f *fakeStore) DeleteVideo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.videos, id)
	return nil
}

func (f *fakeStore) InsertTrainingMaterial(_ context.Context, _ store.TrainingMaterialRecord) error {
	return nil
}

func (f *fakeStore) DeleteTrainingMaterial(_ context.Context, _ string) error { return nil }

func (f *fakeStore) InsertSOPDocument(_ context.Context, rec store.SOPDocumentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sops[rec.ID] = rec
	return nil
}

func (f *fakeStore) DeleteSOPDocument(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sops, id)
	return nil
}

func (f *fakeStore) InsertMergeAudit(_ context.Context, audit store.MergeAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, audit)
	return nil
}

func (f *fakeStore) RecentMergeAudits(_ context.Context, _ int) ([]store.MergeAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.MergeAudit(nil), f.audits...), nil
}

type fakeRemote struct {
	tree remote.TreeResult
	flat remote.FlatEditsResult
}

func (f *fakeRemote) FetchNormalized(_ context.Context) remote.TreeResult     { return f.tree }
func (f *fakeRemote) FetchFlatEdits(_ context.Context) remote.FlatEditsResult { return f.flat }

type fakeSearcher struct {
	mu       sync.Mutex
	reindex  int
	indexed  []string
	response search.Response
}

func (f *fakeSearcher) Search(q search.Query) search.Response {
	f.response.Query = q.Text
	return f.response
}

func (f *fakeSearcher) Reindex() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reindex++
}

func (f *fakeSearcher) IndexElement(_ compliance.Chapter, el compliance.ObjectiveElement) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed = append(f.indexed, el.Code)
}

type fakeVersioner struct {
	mu      sync.Mutex
	commits []gitrepo.SOP
	history []gitrepo.CommitInfo
}

func (f *fakeVersioner) Commit(_ string, sop gitrepo.SOP, _, _ string) (gitrepo.CommitInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits = append(f.commits, sop)
	return gitrepo.CommitInfo{Hash: "abc1234"}, nil
}

func (f *fakeVersioner) History(_ string, _ int) ([]gitrepo.CommitInfo, error) {
	return append([]gitrepo.CommitInfo(nil), f.history...), nil
}

func (f *fakeVersioner) GetByHash(_, _ string) (gitrepo.SOP, error) {
	if len(f.commits) == 0 {
		return gitrepo.SOP{}, errors.New("no commits")
	}
	return f.commits[len(f.commits)-1], nil
}

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: map[string][]byte{}}
}

func (f *fakeBlob) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if f.failPut {
		return errors.New("upload refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeBlob) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeBlob) PresignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blob.test/" + key, nil
}

type fakeDrafter struct{ text string }

func (f *fakeDrafter) Draft(_ context.Context, req ai.DraftRequest) (string, error) {
	if req.ElementCode == "" {
		return "", errors.New("missing code")
	}
	return f.text, nil
}

func (f *fakeDrafter) Name() string { return "fake" }

func testBaseline() []compliance.Chapter {
	return []compliance.Chapter{
		{
			ID: "ch_aac", Code: "AAC", Name: "Access, Assessment and Continuity of Care",
			Tag: compliance.TagPatientCentered, Ordinal: 1,
			Elements: []compliance.ObjectiveElement{
				{
					ID: "el_1", Code: "AAC.1.a",
					Description: "The services being provided are defined and displayed.",
					Category:    compliance.CategoryCore,
					Priority:    compliance.PriorityCore,
					Status:      compliance.StatusNotStarted,
				},
				{
					ID: "el_2", Code: "AAC.1.b",
					Description: "Scope of services is communicated to the community.",
					Category:    compliance.CategoryCommitment,
					Status:      compliance.StatusInProgress,
					Assignee:    "Kashish",
				},
			},
		},
	}
}

type testEnv struct {
	service  *Service
	store    *fakeStore
	remote   *fakeRemote
	search   *fakeSearcher
	blob     *fakeBlob
	version  *fakeVersioner
	trackerS *tracker.Store
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}

	fs := newFakeStore()
	fr := &fakeRemote{
		tree: remote.TreeResult{Err: errors.New("unreachable")},
		flat: remote.FlatEditsResult{Err: errors.New("unreachable")},
	}
	fsearch := &fakeSearcher{}
	fblob := newFakeBlob()
	fversion := &fakeVersioner{}
	trackerStore := tracker.New(nil)

	svc := New(cfg, testBaseline(), Deps{
		Store:   fs,
		Tracker: trackerStore,
		Remote:  fr,
		Search:  fsearch,
		AuthPW:  authpw.NewService(fs),
		SOPs:    fversion,
		Blob:    fblob,
		Export:  nil,
		Drafter: &fakeDrafter{text: "Draft explanation."},
	})

	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("initial reload failed: %v", err)
	}

	return &testEnv{
		service:  svc,
		store:    fs,
		remote:   fr,
		search:   fsearch,
		blob:     fblob,
		version:  fversion,
		trackerS: trackerStore,
	}
}

func TestReloadFallsBackToBaseline(t *testing.T) {
	env := newTestService(t)

	if got := env.trackerS.Source(); got != tracker.SourceBaseline {
		t.Fatalf("source = %s, want baseline", got)
	}
	if len(env.store.audits) != 1 {
		t.Fatalf("expected one merge audit, got %d", len(env.store.audits))
	}
	if env.search.reindex != 1 {
		t.Fatalf("expected one reindex, got %d", env.search.reindex)
	}
}

func TestReloadNormalizedWins(t *testing.T) {
	env := newTestService(t)

	normalized := testBaseline()
	normalized[0].Elements[0].Status = compliance.StatusCompleted
	env.remote.tree = remote.TreeResult{Chapters: normalized}

	report, err := env.service.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if report.Source != tracker.SourceNormalized {
		t.Fatalf("source = %s, want normalized", report.Source)
	}

	el, ok := env.trackerS.FindByCode("AAC.1.a")
	if !ok || el.Status != compliance.StatusCompleted {
		t.Fatalf("normalized tree not published: %+v", el)
	}
}

func TestReloadFlatEditsOverlay(t *testing.T) {
	env := newTestService(t)

	completed := compliance.StatusCompleted
	env.remote.flat = remote.FlatEditsResult{Edits: map[string]compliance.Overlay{
		"AAC.1.a": {Status: &completed},
		"ZZZ.9.z": {Status: &completed},
	}}

	report, err := env.service.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if report.Source != tracker.SourceFlatEdits {
		t.Fatalf("source = %s, want flat-edits", report.Source)
	}

	el, _ := env.trackerS.FindByCode("AAC.1.a")
	if el.Status != compliance.StatusCompleted {
		t.Fatalf("overlay not applied: %s", el.Status)
	}
	other, _ := env.trackerS.FindByCode("AAC.1.b")
	if other.Assignee != "Kashish" {
		t.Fatalf("untouched field lost: %q", other.Assignee)
	}
}

func TestSignUpSignInRefreshLogout(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	session, err := env.service.SignUp(ctx, "nurse@hospital.test", "longenough", "Nurse Admin")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if session.Token == "" || session.RefreshToken == "" {
		t.Fatal("expected tokens on sign up")
	}
	if session.Role != "staff" {
		t.Fatalf("role = %q, want staff", session.Role)
	}

	parsed, err := env.service.SessionFromToken(session.Token)
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if parsed.UserName != "Nurse Admin" {
		t.Fatalf("name = %q", parsed.UserName)
	}

	rotated, err := env.service.Refresh(ctx, session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The old refresh token is single use.
	if _, err := env.service.Refresh(ctx, session.RefreshToken); err == nil {
		t.Fatal("expected reuse of rotated refresh token to fail")
	}

	if err := env.service.Logout(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := env.service.Refresh(ctx, rotated.RefreshToken); err == nil {
		t.Fatal("expected revoked refresh token to fail")
	}

	signedIn, err := env.service.SignIn(ctx, "nurse@hospital.test", "longenough")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if signedIn.UserID != session.UserID {
		t.Fatal("sign in resolved a different user")
	}
}

func TestAuthWithoutDurableStore(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}
	svc := New(cfg, testBaseline(), Deps{
		Tracker: tracker.New(nil),
		AuthPW:  authpw.NewService(newFakeStore()),
	})
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "nurse@hospital.test", "longenough", "Nurse Admin")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected an access token")
	}
	if session.RefreshToken != "" {
		t.Fatal("refresh token issued with nowhere to store it")
	}

	if _, err := svc.Refresh(ctx, "anything"); err == nil {
		t.Fatal("expected refresh to fail without a store")
	}
	if err := svc.Logout(ctx, "anything"); err != nil {
		t.Fatalf("logout must be a no-op without a store: %v", err)
	}
}

func TestUpdateElementPersistsEditAndReindexes(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()
	session := Session{UserName: "Nurse Admin"}

	completed := compliance.StatusCompleted
	updated, err := env.service.UpdateElement(ctx, session, "ch_aac", "el_1", compliance.Overlay{Status: &completed})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != compliance.StatusCompleted {
		t.Fatalf("status = %s", updated.Status)
	}

	raw, ok := env.store.edits["AAC.1.a"]
	if !ok {
		t.Fatal("edit was not persisted by code")
	}
	var patch compliance.Overlay
	if err := json.Unmarshal(raw, &patch); err != nil {
		t.Fatalf("persisted patch is not valid JSON: %v", err)
	}
	if patch.Status == nil || *patch.Status != compliance.StatusCompleted {
		t.Fatalf("persisted patch lost the status: %+v", patch)
	}
	if env.store.editedBy["AAC.1.a"] != "Nurse Admin" {
		t.Fatalf("editedBy = %q", env.store.editedBy["AAC.1.a"])
	}
	if len(env.search.indexed) != 1 || env.search.indexed[0] != "AAC.1.a" {
		t.Fatalf("element was not reindexed: %v", env.search.indexed)
	}
}

func TestUpdateElementValidation(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	if _, err := env.service.UpdateElement(ctx, Session{}, "ch_aac", "el_1", compliance.Overlay{}); err == nil {
		t.Fatal("expected empty patch to be rejected")
	}

	bogus := compliance.Status("Finished")
	_, err := env.service.UpdateElement(ctx, Session{}, "ch_aac", "el_1", compliance.Overlay{Status: &bogus})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 422 {
		t.Fatalf("expected 422 for unknown status, got %v", err)
	}
}

func TestUpsertEditUnknownCode(t *testing.T) {
	env := newTestService(t)
	completed := compliance.StatusCompleted
	_, err := env.service.UpsertEdit(context.Background(), Session{}, "XXX.0.x", compliance.Overlay{Status: &completed})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404 for unknown code, got %v", err)
	}
}

func TestAddEvidenceFileUploadsAndRecords(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	content := bytes.NewReader([]byte("jpeg bytes"))
	file, err := env.service.AddEvidenceFile(ctx, Session{UserName: "Nurse Admin"}, "AAC.1.a", "signage.jpg", "image/jpeg", 10, content)
	if err != nil {
		t.Fatalf("add evidence failed: %v", err)
	}
	if file.ObjectKey == "" || !strings.HasPrefix(file.ObjectKey, "AAC-1-a/") {
		t.Fatalf("object key = %q", file.ObjectKey)
	}
	if _, ok := env.blob.objects[file.ObjectKey]; !ok {
		t.Fatal("content was not uploaded")
	}
	if _, ok := env.store.files[file.ID]; !ok {
		t.Fatal("metadata was not persisted")
	}

	el, _ := env.trackerS.FindByCode("AAC.1.a")
	if len(el.EvidenceFiles) != 1 {
		t.Fatalf("element has %d files", len(el.EvidenceFiles))
	}

	url, err := env.service.EvidenceFileURL(ctx, "AAC.1.a", file.ID)
	if err != nil {
		t.Fatalf("presign failed: %v", err)
	}
	if !strings.Contains(url, file.ObjectKey) {
		t.Fatalf("url = %q", url)
	}

	if err := env.service.RemoveEvidenceFile(ctx, "AAC.1.a", file.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := env.blob.objects[file.ObjectKey]; ok {
		t.Fatal("blob content not cleaned up")
	}
}

func TestAddEvidenceFileUnknownElementCleansUp(t *testing.T) {
	env := newTestService(t)

	_, err := env.service.AddEvidenceFile(context.Background(), Session{}, "XXX.0.x", "x.pdf", "application/pdf", 3, bytes.NewReader([]byte("abc")))
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
	if len(env.blob.objects) != 0 {
		t.Fatal("orphaned blob left behind")
	}
}

func TestAddTrainingMaterialValidatesType(t *testing.T) {
	env := newTestService(t)

	_, err := env.service.AddTrainingMaterial(context.Background(), Session{}, "AAC.1.a", "podcast", "Ep 1", "https://x.test")
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 422 {
		t.Fatalf("expected 422 for unknown type, got %v", err)
	}

	material, err := env.service.AddTrainingMaterial(context.Background(), Session{}, "AAC.1.a", "video", "Hand hygiene", "https://x.test")
	if err != nil {
		t.Fatalf("add material failed: %v", err)
	}
	if material.Type != compliance.MaterialVideo {
		t.Fatalf("type = %s", material.Type)
	}
}

func TestAddSOPDocumentCommitsHistory(t *testing.T) {
	env := newTestService(t)

	doc, err := env.service.AddSOPDocument(context.Background(), Session{UserName: "Quality Head"}, "AAC.1.a", "Admission SOP", "2.1", "2026-09-01", "Step one.")
	if err != nil {
		t.Fatalf("add sop failed: %v", err)
	}
	if doc.Version != "2.1" {
		t.Fatalf("version = %q", doc.Version)
	}
	if len(env.version.commits) != 1 || env.version.commits[0].Title != "Admission SOP" {
		t.Fatalf("sop was not committed: %+v", env.version.commits)
	}
	if _, ok := env.store.sops[doc.ID]; !ok {
		t.Fatal("sop record not persisted")
	}
}

func TestDraftUsesConfiguredProvider(t *testing.T) {
	env := newTestService(t)

	payload, err := env.service.Draft(context.Background(), "AAC.1.a", ai.KindExplanation, "")
	if err != nil {
		t.Fatalf("draft failed: %v", err)
	}
	if payload["provider"] != "fake" || payload["text"] != "Draft explanation." {
		t.Fatalf("unexpected payload: %v", payload)
	}

	if _, err := env.service.Draft(context.Background(), "XXX.0.x", ai.KindExplanation, ""); err == nil {
		t.Fatal("expected unknown code to fail")
	}
}

func TestPendingEditsAndCollections(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	completed := compliance.StatusCompleted
	if _, err := env.service.UpsertEdit(ctx, Session{UserName: "Quality Head"}, "AAC.1.a", compliance.Overlay{Status: &completed}); err != nil {
		t.Fatalf("upsert edit failed: %v", err)
	}

	edits, err := env.service.PendingEdits(ctx)
	if err != nil {
		t.Fatalf("pending edits failed: %v", err)
	}
	if len(edits) != 1 || edits[0].ObjectiveCode != "AAC.1.a" || edits[0].EditedBy != "Quality Head" {
		t.Fatalf("unexpected edits: %+v", edits)
	}

	if _, err := env.service.AddVideo(ctx, Session{}, "AAC.1.a", "Orientation", "https://v.test", ""); err != nil {
		t.Fatalf("add video failed: %v", err)
	}
	collections, err := env.service.ElementCollections(ctx, "AAC.1.a")
	if err != nil {
		t.Fatalf("collections failed: %v", err)
	}
	videos, _ := collections["videos"].([]store.VideoRecord)
	if len(videos) != 1 {
		t.Fatalf("expected one durable video record, got %v", collections["videos"])
	}

	if _, err := env.service.ElementCollections(ctx, "XXX.0.x"); err == nil {
		t.Fatal("expected unknown code to 404")
	}
}

func TestChapterElementsUnknownChapter(t *testing.T) {
	env := newTestService(t)

	if _, err := env.service.ChapterElements("nope", tracker.Filters{}); err == nil {
		t.Fatal("expected unknown chapter to 404")
	}

	elements, err := env.service.ChapterElements("AAC", tracker.Filters{Status: string(compliance.StatusInProgress)})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if len(elements) != 1 || elements[0].Code != "AAC.1.b" {
		t.Fatalf("unexpected elements: %+v", elements)
	}
}
