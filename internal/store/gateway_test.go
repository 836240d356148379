package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SADD1990/Taskmanager/internal/model"
)

func sampleSnapshot() model.Snapshot {
	stamped := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	return model.Snapshot{
		Clients: []model.Client{
			{ID: 1, Name: "Amal", Phone: "+966501234567"},
			{ID: 2, Name: "Badr", Phone: "+966559876543"},
		},
		Tasks: []model.Task{
			{
				ID: 1, Title: "Essay", ClientID: 1, ClientName: "Amal",
				Type: model.TypeResearch, Price: 100, Prepaid: 20,
				Deadline: time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
				Status:   model.StatusCompleted, LastStatusUpdate: &stamped,
			},
			{
				ID: 2, Title: "Slides", ClientID: 2, ClientName: "Badr",
				Type: model.TypePresentation, Price: 50, Prepaid: 0,
				Deadline: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				Status:   model.StatusNew,
			},
		},
		LastClientID: 2,
		LastTaskID:   2,
	}
}

func TestFileGateway_MissingFileYieldsEmptyDefaults(t *testing.T) {
	gw, err := NewFileGateway(t.TempDir())
	require.NoError(t, err)

	snap, err := gw.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Clients)
	assert.Empty(t, snap.Tasks)
	assert.Zero(t, snap.LastClientID)
	assert.Zero(t, snap.LastTaskID)
}

func TestFileGateway_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	gw, err := NewFileGateway(dir)
	require.NoError(t, err)

	want := sampleSnapshot()
	require.NoError(t, gw.Save(want))

	got, err := gw.Load()
	require.NoError(t, err)
	assert.Equal(t, want.Clients, got.Clients)
	assert.Equal(t, want.LastClientID, got.LastClientID)
	assert.Equal(t, want.LastTaskID, got.LastTaskID)
	require.Len(t, got.Tasks, 2)
	assert.True(t, got.Tasks[0].LastStatusUpdate.Equal(*want.Tasks[0].LastStatusUpdate))
	assert.Nil(t, got.Tasks[1].LastStatusUpdate)
}

func TestFileGateway_CountersRestoredFromLegacyFile(t *testing.T) {
	dir := t.TempDir()
	// A data file from before the counters existed.
	legacy := `{"clients":[{"id":3,"name":"Amal","phone":"+966501234567"}],"tasks":[{"id":7,"title":"Essay","clientId":3,"clientName":"Amal","type":"research","price":100,"prepaid":0,"deadline":"2026-02-15T00:00:00Z","status":"new"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(legacy), 0o644))

	gw, err := NewFileGateway(dir)
	require.NoError(t, err)
	snap, err := gw.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.LastClientID)
	assert.Equal(t, 7, snap.LastTaskID)
}

func TestFileGateway_CorruptFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte("{nope"), 0o644))

	gw, err := NewFileGateway(dir)
	require.NoError(t, err)
	_, err = gw.Load()
	assert.Error(t, err)
}
