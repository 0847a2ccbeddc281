package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/tally/internal/service"
)

// CheckpointManager keeps named snapshots of a ledger. Each checkpoint is a
// directory of flat files plus a metadata file, so snapshots taken from
// either backend can be restored into either backend.
type CheckpointManager struct {
	checkpointsDir string
}

// CheckpointMetadata describes a checkpoint.
type CheckpointMetadata struct {
	CreatedAt    time.Time `json:"created_at"`
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Transactions int       `json:"transactions"`
	Budgets      int       `json:"budgets"`
	Debts        int       `json:"debts"`
	IsAuto       bool      `json:"is_auto"`
}

// Checkpoint errors.
var (
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrCheckpointExists   = errors.New("checkpoint already exists")
	ErrInvalidCheckpoint  = errors.New("invalid checkpoint tag")
)

const (
	checkpointsDirName = "checkpoints"
	metadataFile       = "meta.json"

	// MaxAutoCheckpoints is how many automatic checkpoints are kept.
	MaxAutoCheckpoints = 5
)

// NewCheckpointManager creates a checkpoint manager storing snapshots under
// dataDir/checkpoints.
func NewCheckpointManager(dataDir string) (*CheckpointManager, error) {
	if err := validateString(dataDir, "dataDir"); err != nil {
		return nil, err
	}

	checkpointsDir := filepath.Join(dataDir, checkpointsDirName)
	if err := os.MkdirAll(checkpointsDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create checkpoints directory: %w", err)
	}

	return &CheckpointManager{checkpointsDir: checkpointsDir}, nil
}

// Create snapshots everything src holds under tag. An empty tag is replaced
// with a timestamped one.
func (cm *CheckpointManager) Create(ctx context.Context, src service.Storage, tag, description string) (*CheckpointMetadata, error) {
	return cm.create(ctx, src, tag, description, false)
}

// AutoCheckpoint creates a checkpoint named after prefix and the current
// time, then prunes automatic checkpoints beyond MaxAutoCheckpoints.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, src service.Storage, prefix string) (*CheckpointMetadata, error) {
	tag := fmt.Sprintf("auto-%s-%s-%s", prefix, time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	meta, err := cm.create(ctx, src, tag, "Automatic checkpoint before "+prefix, true)
	if err != nil {
		return nil, err
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		slog.Warn("failed to clean up old automatic checkpoints", "error", err)
	}
	return meta, nil
}

func (cm *CheckpointManager) create(ctx context.Context, src service.Storage, tag, description string, auto bool) (*CheckpointMetadata, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", time.Now().Format("2006-01-02-1504"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	path := cm.path(tag)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, tag)
	}

	transactions, err := src.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	budgets, err := src.LoadBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read budgets: %w", err)
	}
	debts, err := src.LoadDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read debts: %w", err)
	}

	snapshot, err := NewFlatFileStorage(path)
	if err != nil {
		return nil, err
	}

	metadata := CheckpointMetadata{
		ID:           tag,
		CreatedAt:    time.Now(),
		Description:  description,
		Transactions: len(transactions),
		Budgets:      len(budgets),
		Debts:        len(debts),
		IsAuto:       auto,
	}

	err = errors.Join(
		snapshot.SaveTransactions(ctx, transactions),
		snapshot.SaveBudgets(ctx, budgets),
		snapshot.SaveDebts(ctx, debts),
		saveMetadata(filepath.Join(path, metadataFile), metadata),
	)
	if err != nil {
		// Clean up partial checkpoint
		if rmErr := os.RemoveAll(path); rmErr != nil {
			slog.Error("failed to remove partial checkpoint", "checkpoint", tag, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to write checkpoint: %w", err)
	}

	slog.Debug("Created checkpoint", "checkpoint", tag, "transactions", len(transactions))
	return &metadata, nil
}

// List returns all checkpoints, newest first. Checkpoints with unreadable
// metadata are skipped.
func (cm *CheckpointManager) List(ctx context.Context) ([]CheckpointMetadata, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(cm.checkpointsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints directory: %w", err)
	}

	checkpoints := make([]CheckpointMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		metadata, err := loadMetadata(filepath.Join(cm.checkpointsDir, entry.Name(), metadataFile))
		if err != nil {
			slog.Warn("Skipping unreadable checkpoint", "checkpoint", entry.Name(), "error", err)
			continue
		}
		checkpoints = append(checkpoints, *metadata)
	}

	sort.SliceStable(checkpoints, func(i, j int) bool {
		return checkpoints[i].CreatedAt.After(checkpoints[j].CreatedAt)
	})
	return checkpoints, nil
}

// Get returns the metadata of one checkpoint.
func (cm *CheckpointManager) Get(ctx context.Context, id string) (*CheckpointMetadata, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateTag(id); err != nil {
		return nil, err
	}

	metadata, err := loadMetadata(filepath.Join(cm.path(id), metadataFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, id)
	}
	return metadata, err
}

// Restore overwrites everything in dst with the checkpoint's records. Each
// store is written even if another fails.
func (cm *CheckpointManager) Restore(ctx context.Context, id string, dst service.Storage) (*CheckpointMetadata, error) {
	metadata, err := cm.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &FlatFileStorage{dir: cm.path(id)}
	transactions, err := snapshot.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	// Flat files do not keep transaction IDs
	for i := range transactions {
		if transactions[i].ID == "" {
			transactions[i].ID = uuid.NewString()
		}
	}
	budgets, err := snapshot.LoadBudgets(ctx)
	if err != nil {
		return nil, err
	}
	debts, err := snapshot.LoadDebts(ctx)
	if err != nil {
		return nil, err
	}

	err = errors.Join(
		dst.SaveTransactions(ctx, transactions),
		dst.SaveBudgets(ctx, budgets),
		dst.SaveDebts(ctx, debts),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to restore checkpoint %s: %w", id, err)
	}
	return metadata, nil
}

// Delete removes a checkpoint.
func (cm *CheckpointManager) Delete(ctx context.Context, id string) error {
	if _, err := cm.Get(ctx, id); err != nil {
		return err
	}
	if err := os.RemoveAll(cm.path(id)); err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", id, err)
	}
	return nil
}

func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	var errs []error
	for _, c := range checkpoints {
		if !c.IsAuto {
			continue
		}
		kept++
		if kept <= MaxAutoCheckpoints {
			continue
		}
		if err := os.RemoveAll(cm.path(c.ID)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (cm *CheckpointManager) path(id string) string {
	return filepath.Join(cm.checkpointsDir, id)
}

func validateTag(tag string) error {
	if strings.TrimSpace(tag) == "" || strings.ContainsAny(tag, `/\`) || strings.Contains(tag, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidCheckpoint, tag)
	}
	return nil
}

func saveMetadata(path string, metadata CheckpointMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func loadMetadata(path string) (*CheckpointMetadata, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the checkpoints directory
	if err != nil {
		return nil, err
	}

	var metadata CheckpointMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}
