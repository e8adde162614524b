package app

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"accredo/api/internal/ai"
	"accredo/api/internal/auth"
	"accredo/api/internal/authpw"
	"accredo/api/internal/blob"
	"accredo/api/internal/compliance"
	"accredo/api/internal/config"
	"accredo/api/internal/export"
	"accredo/api/internal/gitrepo"
	"accredo/api/internal/rbac"
	"accredo/api/internal/remote"
	"accredo/api/internal/search"
	"accredo/api/internal/store"
	"accredo/api/internal/tracker"
	"accredo/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Role         string
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	CreateUser(context.Context, store.User) (store.User, error)
	GetUserByEmail(context.Context, string) (store.User, error)
	GetUserByID(context.Context, string) (store.User, error)
	SaveRefreshSession(context.Context, string, string, time.Time) error
	LookupRefreshSession(context.Context, string) (store.User, error)
	RevokeRefreshSession(context.Context, string) error
	UpsertObjectiveEdit(ctx context.Context, code string, patch []byte, editedBy string) error
	ListObjectiveEdits(context.Context) ([]store.ObjectiveEdit, error)
	InsertEvidenceFile(context.Context, store.EvidenceFileRecord) error
	DeleteEvidenceFile(context.Context, string) error
	ListEvidenceFiles(ctx context.Context, objectiveCode string) ([]store.EvidenceFileRecord, error)
	InsertVideo(context.Context, store.VideoRecord) error
	DeleteVideo(context.Context, string) error
	ListVideos(ctx context.Context, objectiveCode string) ([]store.VideoRecord, error)
	InsertTrainingMaterial(context.Context, store.TrainingMaterialRecord) error
	DeleteTrainingMaterial(context.Context, string) error
	ListTrainingMaterials(ctx context.Context, objectiveCode string) ([]store.TrainingMaterialRecord, error)
	InsertSOPDocument(context.Context, store.SOPDocumentRecord) error
	DeleteSOPDocument(context.Context, string) error
	ListSOPDocuments(ctx context.Context, objectiveCode string) ([]store.SOPDocumentRecord, error)
	InsertMergeAudit(context.Context, store.MergeAudit) error
	RecentMergeAudits(context.Context, int) ([]store.MergeAudit, error)
}

type remoteFetcher interface {
	FetchFlatEdits(context.Context) remote.FlatEditsResult
	FetchNormalized(context.Context) remote.TreeResult
}

type searcher interface {
	Search(search.Query) search.Response
	Reindex()
	IndexElement(compliance.Chapter, compliance.ObjectiveElement)
}

type sopVersioner interface {
	Commit(code string, sop gitrepo.SOP, author, message string) (gitrepo.CommitInfo, error)
	History(code string, limit int) ([]gitrepo.CommitInfo, error)
	GetByHash(code, hash string) (gitrepo.SOP, error)
}

type blobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type exporter interface {
	Export(export.Request) (*export.Result, error)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	tracker  *tracker.Store
	baseline []compliance.Chapter
	remote   remoteFetcher
	search   searcher
	authpw   *authpw.Service
	sops     sopVersioner
	blob     blobStore
	export   exporter
	drafter  ai.Drafter

	pinger func(context.Context) error

	reloadMu sync.Mutex
}

// Deps carries the optional collaborators. Nil members disable their
// feature rather than failing startup.
type Deps struct {
	Store   dataStore
	Tracker *tracker.Store
	Remote  remoteFetcher
	Search  searcher
	AuthPW  *authpw.Service
	SOPs    sopVersioner
	Blob    blobStore
	Export  exporter
	Drafter ai.Drafter
	Pinger  func(context.Context) error
}

func New(cfg config.Config, baseline []compliance.Chapter, deps Deps) *Service {
	return &Service{
		cfg:      cfg,
		store:    deps.Store,
		tracker:  deps.Tracker,
		baseline: baseline,
		remote:   deps.Remote,
		search:   deps.Search,
		authpw:   deps.AuthPW,
		sops:     deps.SOPs,
		blob:     deps.Blob,
		export:   deps.Export,
		drafter:  deps.Drafter,
		pinger:   deps.Pinger,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger(ctx)
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Bootstrap restores the last snapshot and runs the first reload so
// the application serves its freshest available tree immediately.
func (s *Service) Bootstrap(ctx context.Context) {
	if s.tracker.Restore(ctx) {
		log.Printf("app: restored state snapshot (%s)", s.tracker.Describe())
	}
	if _, err := s.Reload(ctx); err != nil {
		log.Printf("app: initial reload: %v", err)
	}
}

// Reload fetches both remote shapes concurrently, merges them against
// the baseline, and publishes the result under a generation ticket so
// an overlapping reload cannot be clobbered by a slower, older one.
func (s *Service) Reload(ctx context.Context) (tracker.MergeReport, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	gen := s.tracker.BeginReload()

	var treeRes remote.TreeResult
	var flatRes remote.FlatEditsResult
	if s.remote != nil {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			treeRes = s.remote.FetchNormalized(ctx)
		}()
		go func() {
			defer wg.Done()
			flatRes = s.remote.FetchFlatEdits(ctx)
		}()
		wg.Wait()
	} else {
		treeRes = remote.TreeResult{Err: errRemoteDisabled}
		flatRes = remote.FlatEditsResult{Err: errRemoteDisabled}
	}

	merged, source := tracker.MergeSources(s.baseline,
		tracker.TreeSource{Chapters: treeRes.Chapters, Err: treeRes.Err},
		tracker.FlatSource{Edits: flatRes.Edits, Err: flatRes.Err})

	report, applied := s.tracker.ApplyMerge(ctx, gen, merged, source)
	if !applied {
		return report, domainError(http.StatusConflict, "STALE_RELOAD", "A newer reload already completed", nil)
	}

	if s.store != nil {
		if err := s.store.InsertMergeAudit(ctx, store.MergeAudit{
			Generation:     int64(report.Generation),
			Source:         string(report.Source),
			Chapters:       report.Chapters,
			Elements:       report.Elements,
			DiscardedEdits: report.DiscardedEdits,
		}); err != nil {
			log.Printf("app: merge audit: %v", err)
		}
	}
	if s.search != nil {
		s.search.Reindex()
	}
	return report, nil
}

// State summarizes the store for diagnostics.
func (s *Service) State(ctx context.Context) map[string]any {
	state := map[string]any{
		"source":     string(s.tracker.Source()),
		"generation": s.tracker.Generation(),
		"filters":    s.tracker.FilterState(),
	}
	if s.store != nil {
		if audits, err := s.store.RecentMergeAudits(ctx, 10); err == nil {
			state["recentMerges"] = audits
		}
	}
	return state
}

// Chapters returns chapter summaries without element bodies.
func (s *Service) Chapters() []map[string]any {
	chapters := s.tracker.Chapters()
	items := make([]map[string]any, 0, len(chapters))
	for _, ch := range chapters {
		completed := 0
		for _, el := range ch.Elements {
			if el.Status == compliance.StatusCompleted {
				completed++
			}
		}
		items = append(items, map[string]any{
			"id":        ch.ID,
			"code":      ch.Code,
			"name":      ch.Name,
			"tag":       ch.Tag,
			"ordinal":   ch.Ordinal,
			"elements":  len(ch.Elements),
			"completed": completed,
		})
	}
	return items
}

// ChapterElements applies the filter layer to one chapter.
func (s *Service) ChapterElements(chapterID string, f tracker.Filters) ([]compliance.ObjectiveElement, error) {
	if !s.chapterExists(chapterID) {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Chapter not found", nil)
	}
	return s.tracker.Filter(chapterID, f), nil
}

func (s *Service) chapterExists(chapterID string) bool {
	for _, ch := range s.tracker.Chapters() {
		if ch.ID == chapterID || ch.Code == chapterID {
			return true
		}
	}
	return false
}

// SetFilters persists the current filter selections.
func (s *Service) SetFilters(ctx context.Context, f tracker.Filters) tracker.Filters {
	s.tracker.SetFilterState(ctx, f)
	return s.tracker.FilterState()
}

// UpdateElement patches an element and records the edit durably so it
// can be pushed to the hosted edits table later. Unknown ids are a 404
// at the HTTP boundary but never corrupt state.
func (s *Service) UpdateElement(ctx context.Context, session Session, chapterID, elementID string, patch compliance.Overlay) (compliance.ObjectiveElement, error) {
	if err := validateOverlay(patch); err != nil {
		return compliance.ObjectiveElement{}, err
	}

	updated, ok := s.tracker.UpdateElement(ctx, chapterID, elementID, patch)
	if !ok {
		return compliance.ObjectiveElement{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}

	s.persistEdit(ctx, updated.Code, patch, session.UserName)
	s.reindexElement(updated.Code)
	return updated, nil
}

// UpsertEdit applies a sparse edit addressed by objective code.
func (s *Service) UpsertEdit(ctx context.Context, session Session, code string, patch compliance.Overlay) (compliance.ObjectiveElement, error) {
	if err := validateOverlay(patch); err != nil {
		return compliance.ObjectiveElement{}, err
	}
	if !s.tracker.ApplyEditByCode(ctx, code, patch) {
		return compliance.ObjectiveElement{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	s.persistEdit(ctx, code, patch, session.UserName)
	s.reindexElement(code)
	el, _ := s.tracker.FindByCode(code)
	return el, nil
}

// PendingEdits lists the durably recorded local edits, the rows a
// later push to the hosted edits table would upsert.
func (s *Service) PendingEdits(ctx context.Context) ([]store.ObjectiveEdit, error) {
	if s.store == nil {
		return []store.ObjectiveEdit{}, nil
	}
	edits, err := s.store.ListObjectiveEdits(ctx)
	if err != nil {
		return nil, err
	}
	if edits == nil {
		edits = []store.ObjectiveEdit{}
	}
	return edits, nil
}

// ElementCollections returns the durable collection records for one
// element. The tracker embeds the same data in the element payload;
// this is the Postgres-backed view that survives reloads.
func (s *Service) ElementCollections(ctx context.Context, code string) (map[string]any, error) {
	if _, err := s.GetElementByCode(code); err != nil {
		return nil, err
	}
	out := map[string]any{
		"files":     []store.EvidenceFileRecord{},
		"videos":    []store.VideoRecord{},
		"materials": []store.TrainingMaterialRecord{},
		"sops":      []store.SOPDocumentRecord{},
	}
	if s.store == nil {
		return out, nil
	}
	files, err := s.store.ListEvidenceFiles(ctx, code)
	if err != nil {
		return nil, err
	}
	videos, err := s.store.ListVideos(ctx, code)
	if err != nil {
		return nil, err
	}
	materials, err := s.store.ListTrainingMaterials(ctx, code)
	if err != nil {
		return nil, err
	}
	sops, err := s.store.ListSOPDocuments(ctx, code)
	if err != nil {
		return nil, err
	}
	if files != nil {
		out["files"] = files
	}
	if videos != nil {
		out["videos"] = videos
	}
	if materials != nil {
		out["materials"] = materials
	}
	if sops != nil {
		out["sops"] = sops
	}
	return out, nil
}

func (s *Service) persistEdit(ctx context.Context, code string, patch compliance.Overlay, editedBy string) {
	if s.store == nil {
		return
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		log.Printf("app: marshal edit for %s: %v", code, err)
		return
	}
	if err := s.store.UpsertObjectiveEdit(ctx, code, raw, editedBy); err != nil {
		log.Printf("app: persist edit for %s: %v", code, err)
	}
}

func (s *Service) reindexElement(code string) {
	if s.search == nil {
		return
	}
	for _, ch := range s.tracker.Chapters() {
		for _, el := range ch.Elements {
			if el.Code == code {
				s.search.IndexElement(ch, el)
				return
			}
		}
	}
}

func validateOverlay(patch compliance.Overlay) error {
	if patch.IsEmpty() {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Patch contains no fields", nil)
	}
	if patch.Status != nil && !compliance.ValidStatus(*patch.Status) {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown status value", map[string]any{"status": *patch.Status})
	}
	if patch.Priority != nil && !compliance.ValidPriority(*patch.Priority) {
		return domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown priority value", map[string]any{"priority": *patch.Priority})
	}
	return nil
}

// GetElementByCode fetches one element by its objective code.
func (s *Service) GetElementByCode(code string) (compliance.ObjectiveElement, error) {
	el, ok := s.tracker.FindByCode(code)
	if !ok {
		return compliance.ObjectiveElement{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	return el, nil
}

// Search runs a full-text query over the merged tree.
func (s *Service) Search(q search.Query) search.Response {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}
	}
	return s.search.Search(q)
}

// Export renders a chapter report.
func (s *Service) Export(req export.Request) (*export.Result, error) {
	if s.export == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export not configured", nil)
	}
	return s.export.Export(req)
}

// Draft asks the configured AI provider for draft compliance text.
func (s *Service) Draft(ctx context.Context, code string, kind ai.Kind, language string) (map[string]any, error) {
	if s.drafter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "AI_UNAVAILABLE", "No AI provider configured", nil)
	}
	el, err := s.GetElementByCode(code)
	if err != nil {
		return nil, err
	}
	text, err := s.drafter.Draft(ctx, ai.DraftRequest{
		ElementCode: el.Code,
		Description: el.Description,
		Kind:        kind,
		Language:    language,
	})
	if err != nil {
		return nil, domainError(http.StatusBadGateway, "AI_FAILED", "Draft generation failed", nil)
	}
	return map[string]any{
		"code":     el.Code,
		"kind":     string(kind),
		"provider": s.drafter.Name(),
		"text":     text,
	}, nil
}

// AddEvidenceFile records file metadata and, when content and object
// storage are both present, uploads the bytes.
func (s *Service) AddEvidenceFile(ctx context.Context, session Session, code, name, mimeType string, size int64, content io.Reader) (compliance.EvidenceFile, error) {
	if strings.TrimSpace(name) == "" {
		return compliance.EvidenceFile{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "File name is required", nil)
	}

	file := compliance.EvidenceFile{
		ID:        util.NewID("ef"),
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: size,
	}

	if s.blob != nil && content != nil {
		file.ObjectKey = blob.ObjectKey(code, file.ID, name)
		if err := s.blob.Put(ctx, file.ObjectKey, content, size, mimeType); err != nil {
			return compliance.EvidenceFile{}, domainError(http.StatusBadGateway, "STORAGE_FAILED", "Evidence upload failed", nil)
		}
	}

	if !s.tracker.AppendEvidenceFile(ctx, code, file) {
		if s.blob != nil && file.ObjectKey != "" {
			_ = s.blob.Delete(ctx, file.ObjectKey)
		}
		return compliance.EvidenceFile{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}

	if s.store != nil {
		if err := s.store.InsertEvidenceFile(ctx, store.EvidenceFileRecord{
			ID:            file.ID,
			ObjectiveCode: code,
			Name:          file.Name,
			MimeType:      file.MimeType,
			SizeBytes:     file.SizeBytes,
			ObjectKey:     file.ObjectKey,
			UploadedBy:    session.UserName,
		}); err != nil {
			log.Printf("app: persist evidence file %s: %v", file.ID, err)
		}
	}
	return file, nil
}

// EvidenceFileURL returns a short-lived download URL for a stored file.
func (s *Service) EvidenceFileURL(ctx context.Context, code, fileID string) (string, error) {
	el, err := s.GetElementByCode(code)
	if err != nil {
		return "", err
	}
	for _, f := range el.EvidenceFiles {
		if f.ID == fileID {
			if s.blob == nil || f.ObjectKey == "" {
				return "", domainError(http.StatusNotFound, "NOT_FOUND", "File content not stored", nil)
			}
			url, err := s.blob.PresignedGetURL(ctx, f.ObjectKey, 15*time.Minute)
			if err != nil {
				return "", domainError(http.StatusBadGateway, "STORAGE_FAILED", "Could not sign download URL", nil)
			}
			return url, nil
		}
	}
	return "", domainError(http.StatusNotFound, "NOT_FOUND", "File not found", nil)
}

// RemoveEvidenceFile deletes metadata and stored content.
func (s *Service) RemoveEvidenceFile(ctx context.Context, code, fileID string) error {
	el, err := s.GetElementByCode(code)
	if err != nil {
		return err
	}
	var objectKey string
	for _, f := range el.EvidenceFiles {
		if f.ID == fileID {
			objectKey = f.ObjectKey
		}
	}

	if !s.tracker.RemoveEvidenceFile(ctx, code, fileID) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.blob != nil && objectKey != "" {
		_ = s.blob.Delete(ctx, objectKey)
	}
	if s.store != nil {
		if err := s.store.DeleteEvidenceFile(ctx, fileID); err != nil {
			log.Printf("app: delete evidence file %s: %v", fileID, err)
		}
	}
	return nil
}

// AddVideo links an external video to an element.
func (s *Service) AddVideo(ctx context.Context, session Session, code string, title, url, description string) (compliance.Video, error) {
	if strings.TrimSpace(url) == "" {
		return compliance.Video{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Video URL is required", nil)
	}
	video := compliance.Video{
		ID:          util.NewID("vid"),
		Title:       title,
		URL:         url,
		Description: description,
	}
	if !s.tracker.AppendVideo(ctx, code, video) {
		return compliance.Video{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.store != nil {
		if err := s.store.InsertVideo(ctx, store.VideoRecord{
			ID: video.ID, ObjectiveCode: code, Title: title, URL: url,
			Description: description, AddedBy: session.UserName,
		}); err != nil {
			log.Printf("app: persist video %s: %v", video.ID, err)
		}
	}
	return video, nil
}

func (s *Service) RemoveVideo(ctx context.Context, code, videoID string) error {
	if !s.tracker.RemoveVideo(ctx, code, videoID) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.store != nil {
		if err := s.store.DeleteVideo(ctx, videoID); err != nil {
			log.Printf("app: delete video %s: %v", videoID, err)
		}
	}
	return nil
}

// AddTrainingMaterial records a training material on an element.
func (s *Service) AddTrainingMaterial(ctx context.Context, session Session, code string, materialType, title, url string) (compliance.TrainingMaterial, error) {
	mt := compliance.TrainingMaterialType(materialType)
	if !compliance.ValidMaterialType(mt) {
		return compliance.TrainingMaterial{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Unknown material type", map[string]any{"type": materialType})
	}
	material := compliance.TrainingMaterial{
		ID:    util.NewID("tm"),
		Type:  mt,
		Title: title,
		URL:   url,
	}
	if !s.tracker.AppendTrainingMaterial(ctx, code, material) {
		return compliance.TrainingMaterial{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.store != nil {
		if err := s.store.InsertTrainingMaterial(ctx, store.TrainingMaterialRecord{
			ID: material.ID, ObjectiveCode: code, Type: materialType,
			Title: title, URL: url, AddedBy: session.UserName,
		}); err != nil {
			log.Printf("app: persist training material %s: %v", material.ID, err)
		}
	}
	return material, nil
}

func (s *Service) RemoveTrainingMaterial(ctx context.Context, code, materialID string) error {
	if !s.tracker.RemoveTrainingMaterial(ctx, code, materialID) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.store != nil {
		if err := s.store.DeleteTrainingMaterial(ctx, materialID); err != nil {
			log.Printf("app: delete training material %s: %v", materialID, err)
		}
	}
	return nil
}

// AddSOPDocument records an SOP revision: attached to the element,
// persisted, and committed to the per-code version history.
func (s *Service) AddSOPDocument(ctx context.Context, session Session, code, title, version, effectiveDate, content string) (compliance.SOPDocument, error) {
	if strings.TrimSpace(title) == "" {
		return compliance.SOPDocument{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "SOP title is required", nil)
	}
	if version == "" {
		version = "1.0"
	}
	doc := compliance.SOPDocument{
		ID:            util.NewID("sop"),
		Title:         title,
		Version:       version,
		EffectiveDate: effectiveDate,
		Content:       content,
	}
	if !s.tracker.AppendSOPDocument(ctx, code, doc) {
		return compliance.SOPDocument{}, domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}

	if s.sops != nil {
		if _, err := s.sops.Commit(code, gitrepo.SOP{
			Title:         title,
			Version:       version,
			EffectiveDate: effectiveDate,
			Content:       content,
		}, session.UserName, ""); err != nil {
			log.Printf("app: sop commit for %s: %v", code, err)
		}
	}
	if s.store != nil {
		if err := s.store.InsertSOPDocument(ctx, store.SOPDocumentRecord{
			ID: doc.ID, ObjectiveCode: code, Title: title, Version: version,
			EffectiveDate: effectiveDate, Content: content, AuthoredBy: session.UserName,
		}); err != nil {
			log.Printf("app: persist sop %s: %v", doc.ID, err)
		}
	}
	return doc, nil
}

func (s *Service) RemoveSOPDocument(ctx context.Context, code, docID string) error {
	if !s.tracker.RemoveSOPDocument(ctx, code, docID) {
		return domainError(http.StatusNotFound, "NOT_FOUND", "Element not found", nil)
	}
	if s.store != nil {
		if err := s.store.DeleteSOPDocument(ctx, docID); err != nil {
			log.Printf("app: delete sop %s: %v", docID, err)
		}
	}
	return nil
}

// SOPHistory lists the version history for an element's SOPs.
func (s *Service) SOPHistory(code string, limit int) ([]gitrepo.CommitInfo, error) {
	if _, err := s.GetElementByCode(code); err != nil {
		return nil, err
	}
	if s.sops == nil {
		return []gitrepo.CommitInfo{}, nil
	}
	history, err := s.sops.History(code, limit)
	if err != nil {
		return nil, domainError(http.StatusInternalServerError, "SERVER_ERROR", "SOP history unavailable", nil)
	}
	return history, nil
}

// SOPRevision fetches an SOP as of a specific commit.
func (s *Service) SOPRevision(code, hash string) (gitrepo.SOP, error) {
	if s.sops == nil {
		return gitrepo.SOP{}, domainError(http.StatusNotFound, "NOT_FOUND", "SOP history not configured", nil)
	}
	sop, err := s.sops.GetByHash(code, hash)
	if err != nil {
		return gitrepo.SOP{}, domainError(http.StatusNotFound, "NOT_FOUND", "SOP revision not found", nil)
	}
	return sop, nil
}

// SignUp registers a user and signs them in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	if s.authpw == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication not configured", nil)
	}
	user, err := s.authpw.SignUp(ctx, authpw.SignUpRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
	})
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// SignIn authenticates credentials and issues a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	if s.authpw == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication not configured", nil)
	}
	user, err := s.authpw.SignIn(ctx, authpw.SignInRequest{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token and issues a new session.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if s.store == nil {
		return Session{}, domainError(http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication not configured", nil)
	}
	tokenHash := auth.HashToken(refreshToken)
	user, err := s.store.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, domainError(http.StatusUnauthorized, "INVALID_REFRESH", "Refresh token is invalid or expired", nil)
	}
	if err := s.store.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:  user.ID,
		Name: user.DisplayName,
		Role: user.Role,
		JTI:  jti,
		Exp:  expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	// Without a durable store there is nowhere to keep a revocable
	// refresh session; the access token alone is issued.
	refresh := ""
	if s.store != nil {
		refresh = util.NewID("rft") + util.NewID("")
		refreshExpires := now.Add(s.cfg.RefreshTTL)
		if err := s.store.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
			return Session{}, err
		}
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Role:         user.Role,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

// SessionFromToken validates an access token. Role and identity come
// from the signed claims; no storage round trip per request.
func (s *Service) SessionFromToken(token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		UserID:    claims.Sub,
		UserName:  claims.Name,
		Role:      claims.Role,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

// Logout revokes the refresh token; access tokens simply expire.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if s.store != nil && refreshToken != "" {
		_ = s.store.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

var errRemoteDisabled = domainError(http.StatusServiceUnavailable, "REMOTE_DISABLED", "Remote dataset not configured", nil)
