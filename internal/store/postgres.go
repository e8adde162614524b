package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// ErrNotFound is returned by lookups with no matching row.
var ErrNotFound = errors.New("not found")

func (s *PostgresStore) CreateUser(ctx context.Context, user User) (User, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash, role)
		VALUES ($1, $2, LOWER($3), $4, $5)
		RETURNING id, display_name, email, role, created_at
	`, user.ID, user.DisplayName, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.DisplayName, &user.Email, &user.Role, &user.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, password_hash, role
		FROM users WHERE email = LOWER($1)
	`, email).Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, role FROM users WHERE id=$1
	`, userID).Scan(&user.ID, &user.DisplayName, &user.Email, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.email, u.role
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.DisplayName, &user.Email, &user.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("lookup refresh session: %w", err)
	}
	if user.Role == "" {
		user.Role = "viewer"
	}
	return user, nil
}

// UpsertObjectiveEdit stores a sparse edit, last write wins per code.
func (s *PostgresStore) UpsertObjectiveEdit(ctx context.Context, code string, patch []byte, editedBy string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objective_edits (objective_code, patch, edited_by, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (objective_code) DO UPDATE SET patch=EXCLUDED.patch, edited_by=EXCLUDED.edited_by, updated_at=NOW()
	`, code, patch, editedBy)
	if err != nil {
		return fmt.Errorf("upsert objective edit: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListObjectiveEdits(ctx context.Context) ([]ObjectiveEdit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT objective_code, patch, edited_by, updated_at
		FROM objective_edits
		ORDER BY objective_code
	`)
	if err != nil {
		return nil, fmt.Errorf("list objective edits: %w", err)
	}
	defer rows.Close()

	items := make([]ObjectiveEdit, 0)
	for rows.Next() {
		var item ObjectiveEdit
		if err := rows.Scan(&item.ObjectiveCode, &item.Patch, &item.EditedBy, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan objective edit: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate objective edits: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertEvidenceFile(ctx context.Context, item EvidenceFileRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evidence_files (id, objective_code, name, mime_type, size_bytes, object_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.ObjectiveCode, item.Name, item.MimeType, item.SizeBytes, item.ObjectKey, item.UploadedBy)
	if err != nil {
		return fmt.Errorf("insert evidence file: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteEvidenceFile(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM evidence_files WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete evidence file: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListEvidenceFiles(ctx context.Context, objectiveCode string) ([]EvidenceFileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, objective_code, name, mime_type, size_bytes, object_key, uploaded_by, created_at
		FROM evidence_files
		WHERE objective_code=$1
		ORDER BY created_at
	`, objectiveCode)
	if err != nil {
		return nil, fmt.Errorf("list evidence files: %w", err)
	}
	defer rows.Close()

	items := make([]EvidenceFileRecord, 0)
	for rows.Next() {
		var item EvidenceFileRecord
		if err := rows.Scan(&item.ID, &item.ObjectiveCode, &item.Name, &item.MimeType, &item.SizeBytes, &item.ObjectKey, &item.UploadedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evidence file: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence files: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertVideo(ctx context.Context, item VideoRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO videos (id, objective_code, title, url, description, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.ObjectiveCode, item.Title, item.URL, item.Description, item.AddedBy)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteVideo(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM videos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListVideos(ctx context.Context, objectiveCode string) ([]VideoRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, objective_code, title, url, description, added_by, created_at
		FROM videos
		WHERE objective_code=$1
		ORDER BY created_at
	`, objectiveCode)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	items := make([]VideoRecord, 0)
	for rows.Next() {
		var item VideoRecord
		if err := rows.Scan(&item.ID, &item.ObjectiveCode, &item.Title, &item.URL, &item.Description, &item.AddedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertTrainingMaterial(ctx context.Context, item TrainingMaterialRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_materials (id, objective_code, type, title, url, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.ObjectiveCode, item.Type, item.Title, item.URL, item.AddedBy)
	if err != nil {
		return fmt.Errorf("insert training material: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteTrainingMaterial(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM training_materials WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete training material: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTrainingMaterials(ctx context.Context, objectiveCode string) ([]TrainingMaterialRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, objective_code, type, title, url, added_by, created_at
		FROM training_materials
		WHERE objective_code=$1
		ORDER BY created_at
	`, objectiveCode)
	if err != nil {
		return nil, fmt.Errorf("list training materials: %w", err)
	}
	defer rows.Close()

	items := make([]TrainingMaterialRecord, 0)
	for rows.Next() {
		var item TrainingMaterialRecord
		if err := rows.Scan(&item.ID, &item.ObjectiveCode, &item.Type, &item.Title, &item.URL, &item.AddedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan training material: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training materials: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertSOPDocument(ctx context.Context, item SOPDocumentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sop_documents (id, objective_code, title, version, effective_date, content, authored_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.ObjectiveCode, item.Title, item.Version, item.EffectiveDate, item.Content, item.AuthoredBy)
	if err != nil {
		return fmt.Errorf("insert sop document: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteSOPDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sop_documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete sop document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListSOPDocuments(ctx context.Context, objectiveCode string) ([]SOPDocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, objective_code, title, version, effective_date, content, authored_by, created_at
		FROM sop_documents
		WHERE objective_code=$1
		ORDER BY created_at
	`, objectiveCode)
	if err != nil {
		return nil, fmt.Errorf("list sop documents: %w", err)
	}
	defer rows.Close()

	items := make([]SOPDocumentRecord, 0)
	for rows.Next() {
		var item SOPDocumentRecord
		if err := rows.Scan(&item.ID, &item.ObjectiveCode, &item.Title, &item.Version, &item.EffectiveDate, &item.Content, &item.AuthoredBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sop document: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sop documents: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) InsertMergeAudit(ctx context.Context, item MergeAudit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merge_audit (generation, source, chapters, elements, discarded_edits)
		VALUES ($1, $2, $3, $4, $5)
	`, item.Generation, item.Source, item.Chapters, item.Elements, item.DiscardedEdits)
	if err != nil {
		return fmt.Errorf("insert merge audit: %w", err)
	}
	return nil
}

func (s *PostgresStore) RecentMergeAudits(ctx context.Context, limit int) ([]MergeAudit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generation, source, chapters, elements, discarded_edits, merged_at
		FROM merge_audit
		ORDER BY merged_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list merge audits: %w", err)
	}
	defer rows.Close()

	items := make([]MergeAudit, 0)
	for rows.Next() {
		var item MergeAudit
		if err := rows.Scan(&item.ID, &item.Generation, &item.Source, &item.Chapters, &item.Elements, &item.DiscardedEdits, &item.MergedAt); err != nil {
			return nil, fmt.Errorf("scan merge audit: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merge audits: %w", err)
	}
	return items, nil
}
