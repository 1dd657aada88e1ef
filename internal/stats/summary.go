package stats

import "zombies/internal/model"

// RunSummary aggregates the tick series of a run.
type RunSummary struct {
	RunID             string `json:"run_id"`
	Seed              int64  `json:"seed"`
	Ticks             int    `json:"ticks"`
	Generations       int    `json:"generations"`
	FinalHumans       int    `json:"final_humans"`
	FinalZombies      int    `json:"final_zombies"`
	PeakZombies       int    `json:"peak_zombies"`
	PeakZombiesTick   int    `json:"peak_zombies_tick"`
	TotalBirths       int    `json:"total_births"`
	TotalConversions  int    `json:"total_conversions"`
	TotalZombieDeaths int    `json:"total_zombie_deaths"`
	TotalFoodEaten    int    `json:"total_food_eaten"`
	// HumanExtinctAt is the first tick that ended with no humans, 0 if none.
	HumanExtinctAt int `json:"human_extinct_at"`
}

func Summarize(run model.RunRecord, ticks []model.TickStats) RunSummary {
	s := RunSummary{
		RunID:        run.ID,
		Seed:         run.Seed,
		Ticks:        run.Ticks,
		Generations:  run.Generations,
		FinalHumans:  run.FinalHumans,
		FinalZombies: run.FinalZombies,
	}
	for _, t := range ticks {
		if t.Zombies > s.PeakZombies {
			s.PeakZombies = t.Zombies
			s.PeakZombiesTick = t.Tick
		}
		s.TotalBirths += t.Births
		s.TotalConversions += t.Conversions
		s.TotalZombieDeaths += t.ZombieDeaths
		s.TotalFoodEaten += t.FoodEaten
		if t.Humans == 0 && s.HumanExtinctAt == 0 {
			s.HumanExtinctAt = t.Tick
		}
	}
	return s
}
