// Package main provides a tool to seed the database with sample session data.
//
// This inserts the October 2025 demo crew (Jason, Nic, Nahla, Pam, Chase) so
// the leaderboard, rollups, and awards endpoints have something to chew on
// during local development. Rows are inserted without an owning account, so
// only admins can edit them afterward.
//
// Usage:
//
//	DATA_PATH=~/Surftober/data go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/id"
	"github.com/surftober/surftober-server/internal/stats"
	"github.com/surftober/surftober-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		dataPath = filepath.Join(home, "Surftober", "data")
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataPath, "surftober.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	for _, raw := range sampleSessions() {
		sess := stats.Normalize(raw)
		sess.ID = id.MustGenerate("ses")
		sess.CreatedAt = now
		sess.UpdatedAt = now
		if err := s.CreateSession(ctx, &sess); err != nil {
			log.Fatalf("Failed to insert session for %s on %s: %v", sess.User, sess.Date, err)
		}
		fmt.Printf("  %s  %-5s %-8s %s\n", sess.Date, sess.User, sess.Type, sess.Duration)
	}

	fmt.Println("Done.")
}

func sampleSessions() []domain.RawSession {
	return []domain.RawSession{
		{User: "Jason", Date: "2025-10-03", Type: "surf", Duration: "02:10", Location: "OB - Lawton", Board: "PPE", Notes: "Clean but a bit walled"},
		{User: "Jason", Date: "2025-10-08", Type: "surf", Duration: "03:48", Location: "OB - Lawton", Board: "PPE", Notes: "Marathon day"},
		{User: "Nic", Date: "2025-10-09", Type: "surf", Duration: "01:30", Location: "OB - Lawton", Board: "Shortboard", Notes: "Speedo sesh", NoWetsuit: 1},
		{User: "Nic", Date: "2025-10-20", Type: "surf", Duration: "01:54", Location: "OB - Lawton", Board: "Shortboard", Notes: "All OB all month", NoWetsuit: 1},
		{User: "Nahla", Date: "2025-10-22", Type: "surf", Duration: "02:15", Location: "OB - Noriega", Board: "Mid", Notes: "Streak day 20"},
		{User: "Nahla", Date: "2025-10-24", Type: "surf", Duration: "02:05", Location: "OB - Noriega", Board: "Mid", Notes: "Twofer day"},
		{User: "Pam", Date: "2025-10-05", Type: "surf", Duration: "01:10", Location: "OB - Kellys", Board: "Log", Notes: "With friends: Jason, Nic"},
		{User: "Pam", Date: "2025-10-17", Type: "cleanup", Duration: "01:00", Location: "OB", Board: "cleanup", Notes: "Picked up 80 items", CleanupItems: 80},
		{User: "Chase", Date: "2025-10-12", Type: "kitesurf", Duration: "01:35", Location: "OB - Moraga", Board: "TwinTip", Notes: "Great wind; high five with Nick"},
		{User: "Chase", Date: "2025-10-26", Type: "surf", Duration: "01:20", Location: "OB - Kirkham", Board: "Step Up", Notes: "Inner bar smashy"},
	}
}
