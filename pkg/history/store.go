// Package history persists project scan reports so past audit runs can be
// listed and searched. Reports live in bbolt keyed by ULID (time-ordered),
// with a bleve side index over summaries and issue messages for full-text
// search.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"
)

var historyLog = log.New(os.Stderr, "[frontlint:history] ", log.Ltime)

var bucketReports = []byte("reports")

// Report is one recorded project scan.
type Report struct {
	ID                string    `json:"id"`
	Time              time.Time `json:"time"`
	Root              string    `json:"root"`
	Commit            string    `json:"commit,omitempty"`
	TotalFilesScanned int       `json:"totalFilesScanned"`
	FilesWithIssues   int       `json:"filesWithIssues"`
	TotalViolations   int       `json:"totalViolations"`
	Summary           string    `json:"summary"`
	// Messages carries the issue messages from the run, capped upstream by
	// the report's result truncation. They feed the search index.
	Messages []string `json:"messages,omitempty"`
}

// searchDoc is the indexed shape of a report.
type searchDoc struct {
	Root     string `json:"root"`
	Summary  string `json:"summary"`
	Messages string `json:"messages"`
}

// Store is the bbolt+bleve backed report history.
type Store struct {
	db     *bolt.DB
	search bleve.Index
}

// Open opens or creates a history store in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, "history.db"), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketReports)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	idx, err := openOrCreateIndex(filepath.Join(dir, "search.bleve"))
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, search: idx}, nil
}

func openOrCreateIndex(path string) (bleve.Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return bleve.New(path, bleve.NewIndexMapping())
	}
	idx, err := bleve.Open(path)
	if err == nil {
		return idx, nil
	}
	// Corrupted index: rebuildable state, drop and recreate.
	historyLog.Printf("search index corrupted at %s (%v), rebuilding", path, err)
	if rmErr := os.RemoveAll(path); rmErr != nil {
		return nil, fmt.Errorf("removing corrupted search index: %w", rmErr)
	}
	return bleve.New(path, bleve.NewIndexMapping())
}

// Close closes the database and the search index.
func (s *Store) Close() error {
	var firstErr error
	if err := s.search.Close(); err != nil {
		firstErr = err
	}
	if err := s.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Record stores a report, assigning a ULID when the report has none.
func (s *Store) Record(r *Report) error {
	if r.ID == "" {
		r.ID = ulid.Make().String()
	}
	if r.Time.IsZero() {
		r.Time = time.Now()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketReports).Put([]byte(r.ID), data)
	})
	if err != nil {
		return fmt.Errorf("storing report %s: %w", r.ID, err)
	}

	doc := searchDoc{
		Root:     r.Root,
		Summary:  r.Summary,
		Messages: strings.Join(r.Messages, "\n"),
	}
	if err := s.search.Index(r.ID, doc); err != nil {
		// The report is stored; a stale index only degrades search.
		historyLog.Printf("WARNING: indexing report %s: %v", r.ID, err)
	}
	return nil
}

// Get fetches one report by ID.
func (s *Store) Get(id string) (*Report, error) {
	var r *Report
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketReports).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("report %s not found", id)
		}
		r = &Report{}
		return json.Unmarshal(data, r)
	})
	return r, err
}

// List returns up to limit reports, newest first. ULIDs sort
// lexicographically by creation time, so a reverse cursor walk is
// chronological.
func (s *Store) List(limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 20
	}
	var reports []*Report
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketReports).Cursor()
		for k, v := c.Last(); k != nil && len(reports) < limit; k, v = c.Prev() {
			var r Report
			if err := json.Unmarshal(v, &r); err != nil {
				historyLog.Printf("WARNING: malformed report %s: %v (skipped)", k, err)
				continue
			}
			reports = append(reports, &r)
		}
		return nil
	})
	return reports, err
}

// Search runs a full-text query over report summaries and issue messages.
func (s *Store) Search(query string, limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 10
	}
	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := s.search.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching history: %w", err)
	}

	var reports []*Report
	for _, hit := range res.Hits {
		r, err := s.Get(hit.ID)
		if err != nil {
			historyLog.Printf("WARNING: indexed report %s missing from db: %v", hit.ID, err)
			continue
		}
		reports = append(reports, r)
	}
	return reports, nil
}
