package model

import (
	"encoding/json"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord summarizes one simulation run. Genomes and populations are never
// stored; a run is reproduced from its seed and config.
type RunRecord struct {
	VersionedRecord
	ID           string          `json:"id"`
	Seed         int64           `json:"seed"`
	StartedAt    time.Time       `json:"started_at"`
	Ticks        int             `json:"ticks"`
	Generations  int             `json:"generations"`
	FinalHumans  int             `json:"final_humans"`
	FinalZombies int             `json:"final_zombies"`
	Extinct      bool            `json:"extinct"`
	Config       json.RawMessage `json:"config,omitempty"`
}

// TickStats are the counters observed at the end of one tick.
type TickStats struct {
	Tick               int     `json:"tick"`
	Humans             int     `json:"humans"`
	Zombies            int     `json:"zombies"`
	Births             int     `json:"births"`
	Conversions        int     `json:"conversions"`
	ZombieDeaths       int     `json:"zombie_deaths"`
	FoodSpawned        int     `json:"food_spawned"`
	FoodEaten          int     `json:"food_eaten"`
	FoodOnGrid         int     `json:"food_on_grid"`
	MeanHumanStrength  float64 `json:"mean_human_strength"`
	MeanZombieStrength float64 `json:"mean_zombie_strength"`
	Evolved            bool    `json:"evolved,omitempty"`
}
