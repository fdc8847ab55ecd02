// Package store: SQLite implementation.
// Uses ncruces/go-sqlite3/driver which provides a database/sql interface.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteStore is the SQLite-backed planner store.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines all planner tables. Id sets and embedded lists
// (milestones, plants) are stored as JSON text; referential integrity
// is managed at the application level, matching the weak-reference
// model: no foreign keys.
const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    writing_id TEXT NOT NULL,
    title TEXT NOT NULL,
    framework TEXT NOT NULL,
    premise TEXT,
    synopsis TEXT,
    theme TEXT,
    genre_tags TEXT,
    target_word_count INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plans_writing ON plans(writing_id);

CREATE TABLE IF NOT EXISTS arcs (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    name TEXT NOT NULL,
    arc_type TEXT NOT NULL,
    description TEXT,
    starting_state TEXT,
    ending_state TEXT,
    value_at_stake TEXT,
    status TEXT NOT NULL,
    "order" REAL,
    linked_character_ids TEXT,
    color TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_arcs_plan ON arcs(plan_id);

CREATE TABLE IF NOT EXISTS beats (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    arc_id TEXT,
    name TEXT NOT NULL,
    beat_type TEXT NOT NULL,
    description TEXT,
    target_percentage REAL,
    target_word_count INTEGER,
    actual_chapter_id TEXT,
    status TEXT NOT NULL,
    notes TEXT,
    "order" REAL,
    act_number INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_beats_plan ON beats(plan_id);

CREATE TABLE IF NOT EXISTS scenes (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    chapter_id TEXT,
    title TEXT NOT NULL,
    summary TEXT,
    pov_character_id TEXT,
    location_id TEXT,
    goal TEXT,
    conflict TEXT,
    disaster TEXT,
    reaction TEXT,
    dilemma TEXT,
    decision TEXT,
    tension_level INTEGER,
    pacing_type TEXT,
    linked_arc_ids TEXT,
    present_character_ids TEXT,
    linked_beat_ids TEXT,
    "order" REAL,
    estimated_word_count INTEGER,
    status TEXT NOT NULL,
    notes TEXT,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scenes_plan ON scenes(plan_id);

CREATE TABLE IF NOT EXISTS character_arcs (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    character_id TEXT NOT NULL,
    arc_type TEXT NOT NULL,
    starting_belief TEXT,
    ending_belief TEXT,
    ghost TEXT,
    want TEXT,
    need TEXT,
    milestones TEXT,
    linked_arc_id TEXT,
    status TEXT NOT NULL,
    notes TEXT,
    "order" REAL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_character_arcs_plan ON character_arcs(plan_id);

CREATE TABLE IF NOT EXISTS threads (
    id TEXT PRIMARY KEY,
    plan_id TEXT NOT NULL,
    name TEXT NOT NULL,
    description TEXT,
    thread_type TEXT NOT NULL,
    setup_scene_id TEXT,
    payoff_scene_id TEXT,
    status TEXT NOT NULL,
    involved_character_ids TEXT,
    linked_scene_ids TEXT,
    codex_entry_ids TEXT,
    plants TEXT,
    notes TEXT,
    "order" REAL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_threads_plan ON threads(plan_id);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// tableFor maps a plan-scoped kind to its table.
func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindArc:
		return "arcs", nil
	case KindBeat:
		return "beats", nil
	case KindScene:
		return "scenes", nil
	case KindCharacterArc:
		return "character_arcs", nil
	case KindThread:
		return "threads", nil
	default:
		return "", fmt.Errorf("kind %q is not plan-scoped", kind)
	}
}

// toJSON marshals a set/list field for storage. nil stores as "null".
func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// fromJSON unmarshals a stored set/list field, tolerating empty text.
func fromJSON(s string, v any) {
	if s == "" || s == "null" {
		return
	}
	_ = json.Unmarshal([]byte(s), v)
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// nextOrderLocked computes max(plan's orders)+1 for a table. Caller holds mu.
func (s *SQLiteStore) nextOrderLocked(table, planID string) (float64, error) {
	var next float64
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX("order"), -1) + 1 FROM `+table+` WHERE plan_id = ?`, planID,
	).Scan(&next)
	return next, err
}

// =============================================================================
// Plans
// =============================================================================

func (s *SQLiteStore) CreatePlan(p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	_, err := s.db.Exec(`
		INSERT INTO plans (id, writing_id, title, framework, premise, synopsis, theme,
			genre_tags, target_word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.WritingID, p.Title, p.Framework, p.Premise, p.Synopsis, p.Theme,
		toJSON(p.GenreTags), nullInt(p.TargetWordCount), p.CreatedAt, p.UpdatedAt)
	return err
}

const planColumns = `id, writing_id, title, framework, premise, synopsis, theme,
	genre_tags, target_word_count, created_at, updated_at`

func scanPlan(row interface{ Scan(...any) error }) (*Plan, error) {
	var p Plan
	var tags string
	var twc sql.NullInt64
	err := row.Scan(&p.ID, &p.WritingID, &p.Title, &p.Framework, &p.Premise, &p.Synopsis,
		&p.Theme, &tags, &twc, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fromJSON(tags, &p.GenreTags)
	p.TargetWordCount = intPtr(twc)
	return &p, nil
}

func (s *SQLiteStore) GetPlan(id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := scanPlan(s.db.QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindPlan, id)
	}
	return p, err
}

func (s *SQLiteStore) GetPlanByWriting(writingID string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := scanPlan(s.db.QueryRow(
		`SELECT `+planColumns+` FROM plans WHERE writing_id = ? ORDER BY created_at, id LIMIT 1`,
		writingID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan for writing %q: %w", writingID, ErrNotFound)
	}
	return p, err
}

func (s *SQLiteStore) ListPlans() ([]*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT ` + planColumns + ` FROM plans ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdatePlan(p *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE plans SET writing_id=?, title=?, framework=?, premise=?, synopsis=?, theme=?,
			genre_tags=?, target_word_count=?, updated_at=?
		WHERE id=?
	`, p.WritingID, p.Title, p.Framework, p.Premise, p.Synopsis, p.Theme,
		toJSON(p.GenreTags), nullInt(p.TargetWordCount), p.UpdatedAt, p.ID)
	return requireRow(res, err, KindPlan, p.ID)
}

func (s *SQLiteStore) DeletePlan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM plans WHERE id = ?`, id)
	return requireRow(res, err, KindPlan, id)
}

// requireRow converts a zero-row mutation into ErrNotFound.
func requireRow(res sql.Result, err error, kind Kind, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// =============================================================================
// Arcs
// =============================================================================

const arcColumns = `id, plan_id, name, arc_type, description, starting_state, ending_state,
	value_at_stake, status, "order", linked_character_ids, color, created_at, updated_at`

func (s *SQLiteStore) CreateArc(a *Arc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if a.Order < 0 {
		next, err := s.nextOrderLocked("arcs", a.PlanID)
		if err != nil {
			return err
		}
		a.Order = next
	}
	_, err := s.db.Exec(`
		INSERT INTO arcs (`+arcColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.PlanID, a.Name, a.Type, a.Description, a.StartingState, a.EndingState,
		a.ValueAtStake, a.Status, a.Order, toJSON(a.LinkedCharacterIDs), a.Color,
		a.CreatedAt, a.UpdatedAt)
	return err
}

func scanArc(row interface{ Scan(...any) error }) (*Arc, error) {
	var a Arc
	var chars string
	err := row.Scan(&a.ID, &a.PlanID, &a.Name, &a.Type, &a.Description, &a.StartingState,
		&a.EndingState, &a.ValueAtStake, &a.Status, &a.Order, &chars, &a.Color,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fromJSON(chars, &a.LinkedCharacterIDs)
	return &a, nil
}

func (s *SQLiteStore) GetArc(id string) (*Arc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, err := scanArc(s.db.QueryRow(`SELECT `+arcColumns+` FROM arcs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindArc, id)
	}
	return a, err
}

func (s *SQLiteStore) ListArcsByPlan(planID string) ([]*Arc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT `+arcColumns+` FROM arcs WHERE plan_id = ? ORDER BY "order", created_at, id`,
		planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Arc
	for rows.Next() {
		a, err := scanArc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateArc(a *Arc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE arcs SET plan_id=?, name=?, arc_type=?, description=?, starting_state=?,
			ending_state=?, value_at_stake=?, status=?, "order"=?, linked_character_ids=?,
			color=?, updated_at=?
		WHERE id=?
	`, a.PlanID, a.Name, a.Type, a.Description, a.StartingState, a.EndingState,
		a.ValueAtStake, a.Status, a.Order, toJSON(a.LinkedCharacterIDs), a.Color,
		a.UpdatedAt, a.ID)
	return requireRow(res, err, KindArc, a.ID)
}

func (s *SQLiteStore) DeleteArc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM arcs WHERE id = ?`, id)
	return requireRow(res, err, KindArc, id)
}

// =============================================================================
// Beats
// =============================================================================

const beatColumns = `id, plan_id, arc_id, name, beat_type, description, target_percentage,
	target_word_count, actual_chapter_id, status, notes, "order", act_number,
	created_at, updated_at`

func (s *SQLiteStore) CreateBeat(b *Beat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if b.Order < 0 {
		next, err := s.nextOrderLocked("beats", b.PlanID)
		if err != nil {
			return err
		}
		b.Order = next
	}
	_, err := s.db.Exec(`
		INSERT INTO beats (`+beatColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.PlanID, b.ArcID, b.Name, b.BeatType, b.Description, b.TargetPercentage,
		nullInt(b.TargetWordCount), b.ActualChapterID, b.Status, b.Notes, b.Order,
		b.ActNumber, b.CreatedAt, b.UpdatedAt)
	return err
}

func scanBeat(row interface{ Scan(...any) error }) (*Beat, error) {
	var b Beat
	var twc sql.NullInt64
	err := row.Scan(&b.ID, &b.PlanID, &b.ArcID, &b.Name, &b.BeatType, &b.Description,
		&b.TargetPercentage, &twc, &b.ActualChapterID, &b.Status, &b.Notes, &b.Order,
		&b.ActNumber, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.TargetWordCount = intPtr(twc)
	return &b, nil
}

func (s *SQLiteStore) GetBeat(id string) (*Beat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := scanBeat(s.db.QueryRow(`SELECT `+beatColumns+` FROM beats WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindBeat, id)
	}
	return b, err
}

func (s *SQLiteStore) ListBeatsByPlan(planID string) ([]*Beat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT `+beatColumns+` FROM beats WHERE plan_id = ? ORDER BY "order", created_at, id`,
		planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Beat
	for rows.Next() {
		b, err := scanBeat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateBeat(b *Beat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE beats SET plan_id=?, arc_id=?, name=?, beat_type=?, description=?,
			target_percentage=?, target_word_count=?, actual_chapter_id=?, status=?,
			notes=?, "order"=?, act_number=?, updated_at=?
		WHERE id=?
	`, b.PlanID, b.ArcID, b.Name, b.BeatType, b.Description, b.TargetPercentage,
		nullInt(b.TargetWordCount), b.ActualChapterID, b.Status, b.Notes, b.Order,
		b.ActNumber, b.UpdatedAt, b.ID)
	return requireRow(res, err, KindBeat, b.ID)
}

func (s *SQLiteStore) DeleteBeat(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM beats WHERE id = ?`, id)
	return requireRow(res, err, KindBeat, id)
}

// =============================================================================
// Scenes
// =============================================================================

const sceneColumns = `id, plan_id, chapter_id, title, summary, pov_character_id, location_id,
	goal, conflict, disaster, reaction, dilemma, decision, tension_level, pacing_type,
	linked_arc_ids, present_character_ids, linked_beat_ids, "order", estimated_word_count,
	status, notes, created_at, updated_at`

func (s *SQLiteStore) CreateScene(sc *Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
	if sc.Order < 0 {
		next, err := s.nextOrderLocked("scenes", sc.PlanID)
		if err != nil {
			return err
		}
		sc.Order = next
	}
	_, err := s.db.Exec(`
		INSERT INTO scenes (`+sceneColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sc.ID, sc.PlanID, sc.ChapterID, sc.Title, sc.Summary, sc.POVCharacterID, sc.LocationID,
		sc.Goal, sc.Conflict, sc.Disaster, sc.Reaction, sc.Dilemma, sc.Decision,
		sc.TensionLevel, sc.PacingType, toJSON(sc.LinkedArcIDs),
		toJSON(sc.PresentCharacterIDs), toJSON(sc.LinkedBeatIDs), sc.Order,
		sc.EstimatedWordCount, sc.Status, sc.Notes, sc.CreatedAt, sc.UpdatedAt)
	return err
}

func scanScene(row interface{ Scan(...any) error }) (*Scene, error) {
	var sc Scene
	var arcs, chars, beats string
	err := row.Scan(&sc.ID, &sc.PlanID, &sc.ChapterID, &sc.Title, &sc.Summary,
		&sc.POVCharacterID, &sc.LocationID, &sc.Goal, &sc.Conflict, &sc.Disaster,
		&sc.Reaction, &sc.Dilemma, &sc.Decision, &sc.TensionLevel, &sc.PacingType,
		&arcs, &chars, &beats, &sc.Order, &sc.EstimatedWordCount, &sc.Status, &sc.Notes,
		&sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fromJSON(arcs, &sc.LinkedArcIDs)
	fromJSON(chars, &sc.PresentCharacterIDs)
	fromJSON(beats, &sc.LinkedBeatIDs)
	return &sc, nil
}

func (s *SQLiteStore) GetScene(id string) (*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, err := scanScene(s.db.QueryRow(`SELECT `+sceneColumns+` FROM scenes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindScene, id)
	}
	return sc, err
}

func (s *SQLiteStore) ListScenesByPlan(planID string) ([]*Scene, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT `+sceneColumns+` FROM scenes WHERE plan_id = ? ORDER BY "order", created_at, id`,
		planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Scene
	for rows.Next() {
		sc, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateScene(sc *Scene) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE scenes SET plan_id=?, chapter_id=?, title=?, summary=?, pov_character_id=?,
			location_id=?, goal=?, conflict=?, disaster=?, reaction=?, dilemma=?, decision=?,
			tension_level=?, pacing_type=?, linked_arc_ids=?, present_character_ids=?,
			linked_beat_ids=?, "order"=?, estimated_word_count=?, status=?, notes=?,
			updated_at=?
		WHERE id=?
	`, sc.PlanID, sc.ChapterID, sc.Title, sc.Summary, sc.POVCharacterID, sc.LocationID,
		sc.Goal, sc.Conflict, sc.Disaster, sc.Reaction, sc.Dilemma, sc.Decision,
		sc.TensionLevel, sc.PacingType, toJSON(sc.LinkedArcIDs),
		toJSON(sc.PresentCharacterIDs), toJSON(sc.LinkedBeatIDs), sc.Order,
		sc.EstimatedWordCount, sc.Status, sc.Notes, sc.UpdatedAt, sc.ID)
	return requireRow(res, err, KindScene, sc.ID)
}

func (s *SQLiteStore) DeleteScene(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM scenes WHERE id = ?`, id)
	return requireRow(res, err, KindScene, id)
}

// =============================================================================
// Character arcs
// =============================================================================

const characterArcColumns = `id, plan_id, character_id, arc_type, starting_belief,
	ending_belief, ghost, want, need, milestones, linked_arc_id, status, notes, "order",
	created_at, updated_at`

func (s *SQLiteStore) CreateCharacterArc(c *CharacterArc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if c.Order < 0 {
		next, err := s.nextOrderLocked("character_arcs", c.PlanID)
		if err != nil {
			return err
		}
		c.Order = next
	}
	_, err := s.db.Exec(`
		INSERT INTO character_arcs (`+characterArcColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.PlanID, c.CharacterID, c.Type, c.StartingBelief, c.EndingBelief, c.Ghost,
		c.Want, c.Need, toJSON(c.Milestones), c.LinkedArcID, c.Status, c.Notes, c.Order,
		c.CreatedAt, c.UpdatedAt)
	return err
}

func scanCharacterArc(row interface{ Scan(...any) error }) (*CharacterArc, error) {
	var c CharacterArc
	var milestones string
	err := row.Scan(&c.ID, &c.PlanID, &c.CharacterID, &c.Type, &c.StartingBelief,
		&c.EndingBelief, &c.Ghost, &c.Want, &c.Need, &milestones, &c.LinkedArcID,
		&c.Status, &c.Notes, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fromJSON(milestones, &c.Milestones)
	return &c, nil
}

func (s *SQLiteStore) GetCharacterArc(id string) (*CharacterArc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := scanCharacterArc(s.db.QueryRow(
		`SELECT `+characterArcColumns+` FROM character_arcs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindCharacterArc, id)
	}
	return c, err
}

func (s *SQLiteStore) ListCharacterArcsByPlan(planID string) ([]*CharacterArc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT `+characterArcColumns+` FROM character_arcs WHERE plan_id = ?
		 ORDER BY "order", created_at, id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*CharacterArc
	for rows.Next() {
		c, err := scanCharacterArc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateCharacterArc(c *CharacterArc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE character_arcs SET plan_id=?, character_id=?, arc_type=?, starting_belief=?,
			ending_belief=?, ghost=?, want=?, need=?, milestones=?, linked_arc_id=?,
			status=?, notes=?, "order"=?, updated_at=?
		WHERE id=?
	`, c.PlanID, c.CharacterID, c.Type, c.StartingBelief, c.EndingBelief, c.Ghost, c.Want,
		c.Need, toJSON(c.Milestones), c.LinkedArcID, c.Status, c.Notes, c.Order,
		c.UpdatedAt, c.ID)
	return requireRow(res, err, KindCharacterArc, c.ID)
}

func (s *SQLiteStore) DeleteCharacterArc(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM character_arcs WHERE id = ?`, id)
	return requireRow(res, err, KindCharacterArc, id)
}

// =============================================================================
// Threads
// =============================================================================

const threadColumns = `id, plan_id, name, description, thread_type, setup_scene_id,
	payoff_scene_id, status, involved_character_ids, linked_scene_ids, codex_entry_ids,
	plants, notes, "order", created_at, updated_at`

func (s *SQLiteStore) CreateThread(t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stampCreate(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if t.Order < 0 {
		next, err := s.nextOrderLocked("threads", t.PlanID)
		if err != nil {
			return err
		}
		t.Order = next
	}
	_, err := s.db.Exec(`
		INSERT INTO threads (`+threadColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.PlanID, t.Name, t.Description, t.Type, t.SetupSceneID, t.PayoffSceneID,
		t.Status, toJSON(t.InvolvedCharacterIDs), toJSON(t.LinkedSceneIDs),
		toJSON(t.CodexEntryIDs), toJSON(t.Plants), t.Notes, t.Order, t.CreatedAt, t.UpdatedAt)
	return err
}

func scanThread(row interface{ Scan(...any) error }) (*Thread, error) {
	var t Thread
	var chars, scenes, codex, plants string
	err := row.Scan(&t.ID, &t.PlanID, &t.Name, &t.Description, &t.Type, &t.SetupSceneID,
		&t.PayoffSceneID, &t.Status, &chars, &scenes, &codex, &plants, &t.Notes, &t.Order,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	fromJSON(chars, &t.InvolvedCharacterIDs)
	fromJSON(scenes, &t.LinkedSceneIDs)
	fromJSON(codex, &t.CodexEntryIDs)
	fromJSON(plants, &t.Plants)
	return &t, nil
}

func (s *SQLiteStore) GetThread(id string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := scanThread(s.db.QueryRow(`SELECT `+threadColumns+` FROM threads WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, notFound(KindThread, id)
	}
	return t, err
}

func (s *SQLiteStore) ListThreadsByPlan(planID string) ([]*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT `+threadColumns+` FROM threads WHERE plan_id = ? ORDER BY "order", created_at, id`,
		planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpdateThread(t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.UpdatedAt = nowMillis()
	res, err := s.db.Exec(`
		UPDATE threads SET plan_id=?, name=?, description=?, thread_type=?, setup_scene_id=?,
			payoff_scene_id=?, status=?, involved_character_ids=?, linked_scene_ids=?,
			codex_entry_ids=?, plants=?, notes=?, "order"=?, updated_at=?
		WHERE id=?
	`, t.PlanID, t.Name, t.Description, t.Type, t.SetupSceneID, t.PayoffSceneID, t.Status,
		toJSON(t.InvolvedCharacterIDs), toJSON(t.LinkedSceneIDs), toJSON(t.CodexEntryIDs),
		toJSON(t.Plants), t.Notes, t.Order, t.UpdatedAt, t.ID)
	return requireRow(res, err, KindThread, t.ID)
}

func (s *SQLiteStore) DeleteThread(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM threads WHERE id = ?`, id)
	return requireRow(res, err, KindThread, id)
}

// =============================================================================
// Kind-generic surface
// =============================================================================

func (s *SQLiteStore) ListIDsByPlan(kind Kind, planID string) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(
		`SELECT id FROM `+table+` WHERE plan_id = ? ORDER BY "order", created_at, id`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) SetOrder(kind Kind, id string, order float64) error {
	table, err := tableFor(kind)
	if err != nil {
		return fmt.Errorf("kind %q has no order", kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(
		`UPDATE `+table+` SET "order" = ?, updated_at = ? WHERE id = ?`,
		order, nowMillis(), id)
	return requireRow(res, err, kind, id)
}

func (s *SQLiteStore) DeleteByPlan(kind Kind, planID string) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec(`DELETE FROM `+table+` WHERE plan_id = ?`, planID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
