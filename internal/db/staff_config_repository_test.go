package db

import (
	"database/sql"
	"testing"

	"github.com/ad/go-telegram-shifts/internal/models"
	"pgregory.net/rapid"
)

func TestStaffConfigRoundTrip(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewStaffConfigRepository(queue)

	config := &models.StaffConfig{
		AdminIDs:     []int64{11, 22, 33},
		ReportChatID: -1001234567890,
	}
	if err := repo.Save(config); err != nil {
		t.Fatal(err)
	}

	got, err := repo.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.AdminIDs) != 3 {
		t.Fatalf("Expected 3 admin IDs, got %d", len(got.AdminIDs))
	}
	for i, id := range config.AdminIDs {
		if got.AdminIDs[i] != id {
			t.Errorf("Admin ID %d at position %d, want %d", got.AdminIDs[i], i, id)
		}
	}
	if got.ReportChatID != config.ReportChatID {
		t.Errorf("Report chat ID %d, want %d", got.ReportChatID, config.ReportChatID)
	}
}

func TestStaffConfigEmptyByDefault(t *testing.T) {
	queue := newTestQueue(t)
	repo := NewStaffConfigRepository(queue)

	config, err := repo.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(config.AdminIDs) != 0 || config.ReportChatID != 0 {
		t.Errorf("Expected an empty config, got %+v", config)
	}
}

func TestAdminListManagement(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		testDB, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			rt.Fatal(err)
		}
		defer testDB.Close()
		testDB.SetMaxOpenConns(1)

		if err := InitSchema(testDB); err != nil {
			rt.Fatal(err)
		}

		queue := NewDBQueueForTest(testDB)
		defer queue.Close()
		repo := NewStaffConfigRepository(queue)

		adminID := rapid.Int64Range(1, 1000000).Draw(rt, "adminID")

		if err := repo.AddAdmin(adminID); err != nil {
			rt.Fatal(err)
		}

		isAdmin, err := repo.IsAdmin(adminID)
		if err != nil {
			rt.Fatal(err)
		}
		if !isAdmin {
			rt.Fatalf("Expected admin ID %d to be in admin list after adding", adminID)
		}

		if err := repo.AddAdmin(adminID); err != nil {
			rt.Fatal(err)
		}
		config, err := repo.Get()
		if err != nil {
			rt.Fatal(err)
		}
		if len(config.AdminIDs) != 1 {
			rt.Fatalf("Adding twice must not duplicate, got %v", config.AdminIDs)
		}

		if err := repo.RemoveAdmin(adminID); err != nil {
			rt.Fatal(err)
		}

		isAdmin, err = repo.IsAdmin(adminID)
		if err != nil {
			rt.Fatal(err)
		}
		if isAdmin {
			rt.Fatalf("Expected admin ID %d to not be in admin list after removing", adminID)
		}
	})
}
