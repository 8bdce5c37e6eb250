package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dillib/cloudbom/internal/compliance"
	"github.com/dillib/cloudbom/internal/delta"
	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/errkind"
)

// Store persists snapshots as content-addressed files under Dir (spec
// §4.6). One directory holds every snapshot file for a run root; the file
// name encodes both the snapshot id and a timestamp so a directory listing
// sorts chronologically without reading file contents.
type Store struct {
	Dir           string
	RetentionDays int
	MaxSnapshots  int
	Logger        *zap.Logger
}

// NewStore constructs a Store rooted at dir, creating it if absent.
// retentionDays and maxSnapshots of zero disable their respective pruning
// rule (spec §9 Open Question 3: both are enforced when set; the most
// recent snapshot is never pruned regardless).
func NewStore(dir string, retentionDays, maxSnapshots int, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to create state directory")
	}
	return &Store{Dir: dir, RetentionDays: retentionDays, MaxSnapshots: maxSnapshots, Logger: logger}, nil
}

// Save writes a new snapshot built from records/summary/accountIDs/regions/
// tags, returning its id. Save is idempotent on equal checksum: if an
// existing snapshot already carries the same checksum, its id is returned
// and nothing is written (spec §4.6 "idempotent on equal checksum").
func (s *Store) Save(records []discovery.Resource, summary compliance.Summary, accountIDs, regions []string, tags map[string]string, createdAt time.Time) (string, error) {
	sum, err := checksum(records)
	if err != nil {
		return "", errkind.Wrap(errkind.UnexpectedError, err, "failed to checksum records")
	}

	if existingID, found := s.findByChecksum(sum); found {
		s.Logger.Info("snapshot save idempotent, reusing existing id",
			zap.String("snapshot_id", existingID), zap.String("checksum", sum))
		return existingID, nil
	}

	id := fmt.Sprintf("%d-%s", createdAt.UTC().UnixNano(), sum[:12])
	snap := Snapshot{
		SnapshotID:        id,
		CreatedAt:         createdAt.UTC(),
		AccountIDs:        accountIDs,
		Regions:           regions,
		Checksum:          sum,
		Tags:              tags,
		ComplianceSummary: summary,
		Records:           sortedRecords(records),
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", errkind.Wrap(errkind.UnexpectedError, err, "failed to marshal snapshot")
	}

	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return "", errkind.Wrap(errkind.UnexpectedError, err, "failed to write snapshot file")
	}

	s.prune(createdAt)
	return id, nil
}

// Load reads a snapshot by id.
func (s *Store) Load(id string) (Snapshot, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return Snapshot{}, errkind.Wrap(errkind.CorruptSnapshot, err, "failed to read snapshot file")
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errkind.Wrap(errkind.CorruptSnapshot, err, "failed to parse snapshot file")
	}
	return snap, nil
}

// List returns every snapshot's Meta, ordered by creation time ascending
// (spec §4.6 "list() -> [snapshot_meta, ...] ordered by creation time").
func (s *Store) List() ([]Meta, error) {
	ids, err := s.listIDs()
	if err != nil {
		return nil, err
	}
	metas := make([]Meta, 0, len(ids))
	for _, id := range ids {
		snap, err := s.Load(id)
		if err != nil {
			s.Logger.Warn("skipping unreadable snapshot during list", zap.String("id", id), zap.Error(err))
			continue
		}
		metas = append(metas, snap.meta())
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].CreatedAt.Before(metas[j].CreatedAt) })
	return metas, nil
}

// Compare delegates to the Delta Detector (spec §4.6 "compare(id1, id2) ->
// delta", §4.7).
func (s *Store) Compare(id1, id2 string, attributes []string) (delta.Delta, error) {
	before, err := s.Load(id1)
	if err != nil {
		return delta.Delta{}, err
	}
	after, err := s.Load(id2)
	if err != nil {
		return delta.Delta{}, err
	}
	return delta.Detect(before.SnapshotID, after.SnapshotID, before.Records, after.Records, attributes), nil
}

// Export returns the snapshot's bytes in the requested format. Only "json"
// is currently implemented; any other format is rejected rather than
// silently falling back to json, since a silent format downgrade would
// violate the explicit caller contract.
func (s *Store) Export(id, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return os.ReadFile(s.path(id))
	default:
		return nil, errkind.New(errkind.InvalidPolicy, "unsupported export format: "+format)
	}
}

// IntegrityReport is validate_integrity()'s result (spec §4.6).
type IntegrityReport struct {
	ValidIDs         []string
	InvalidIDs       []string
	MissingFiles     []string
	ChecksumMismatches []string
}

// ValidateIntegrity re-derives each snapshot's checksum from its own record
// set and compares it against the stored checksum, flagging any mismatch or
// unreadable file.
func (s *Store) ValidateIntegrity() (IntegrityReport, error) {
	ids, err := s.listIDs()
	if err != nil {
		return IntegrityReport{}, err
	}

	var report IntegrityReport
	for _, id := range ids {
		data, err := os.ReadFile(s.path(id))
		if err != nil {
			report.MissingFiles = append(report.MissingFiles, id)
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			report.InvalidIDs = append(report.InvalidIDs, id)
			continue
		}
		recomputed, err := checksum(snap.Records)
		if err != nil || recomputed != snap.Checksum {
			report.ChecksumMismatches = append(report.ChecksumMismatches, id)
			continue
		}
		report.ValidIDs = append(report.ValidIDs, id)
	}
	return report, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

func (s *Store) listIDs() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "failed to list state directory")
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

func (s *Store) findByChecksum(sum string) (string, bool) {
	ids, err := s.listIDs()
	if err != nil {
		return "", false
	}
	for _, id := range ids {
		snap, err := s.Load(id)
		if err != nil {
			continue
		}
		if snap.Checksum == sum {
			return snap.SnapshotID, true
		}
	}
	return "", false
}

// prune removes snapshots that violate the retention policy: older than
// RetentionDays, or beyond MaxSnapshots most-recent, but never the single
// most recent snapshot regardless of how stale the whole directory is
// (spec §4.6 "never purge the most recent").
func (s *Store) prune(now time.Time) {
	metas, err := s.List()
	if err != nil || len(metas) <= 1 {
		return
	}

	// List() returns ascending by CreatedAt; the most recent is the last
	// element and is always kept.
	mostRecent := metas[len(metas)-1].SnapshotID
	candidates := metas[:len(metas)-1]

	keep := map[string]bool{mostRecent: true}
	if s.MaxSnapshots > 0 && len(metas) > s.MaxSnapshots {
		// Keep the newest (MaxSnapshots - 1) among candidates, plus mostRecent.
		start := len(candidates) - (s.MaxSnapshots - 1)
		if start < 0 {
			start = 0
		}
		for _, m := range candidates[start:] {
			keep[m.SnapshotID] = true
		}
	} else {
		for _, m := range candidates {
			keep[m.SnapshotID] = true
		}
	}

	if s.RetentionDays > 0 {
		cutoff := now.Add(-time.Duration(s.RetentionDays) * 24 * time.Hour)
		for _, m := range candidates {
			if m.CreatedAt.Before(cutoff) {
				delete(keep, m.SnapshotID)
			}
		}
	}

	for _, m := range metas {
		if keep[m.SnapshotID] {
			continue
		}
		if err := os.Remove(s.path(m.SnapshotID)); err != nil {
			s.Logger.Warn("failed to prune snapshot", zap.String("id", m.SnapshotID), zap.Error(err))
		}
	}
}
