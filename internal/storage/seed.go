package storage

import (
	"context"
	"time"

	"github.com/cs2stats/cs2stats/internal/models"
)

func strPtr(s string) *string    { return &s }
func intPtr(n int) *int          { return &n }
func timePtr(t time.Time) *time.Time { return &t }

// SeedDemoData loads a small roster of teams, players and matches so the
// server is useful out of the box when running on the in-memory store.
func SeedDemoData(ctx context.Context, store Storage) error {
	navi, err := store.CreateTeam(ctx, models.InsertTeam{
		Name:    "Natus Vincere",
		Acronym: strPtr("NAVI"),
		Country: strPtr("UKR"),
		Region:  strPtr("Europe"),
		Rank:    intPtr(1),
		Wins:    156,
		Losses:  43,
		SocialLinks: &models.SocialLinks{
			Twitter: "https://twitter.com/natusvincere",
			Twitch:  "https://twitch.tv/natusvincere",
		},
	})
	if err != nil {
		return err
	}

	faze, err := store.CreateTeam(ctx, models.InsertTeam{
		Name:    "FaZe Clan",
		Acronym: strPtr("FaZe"),
		Country: strPtr("EUR"),
		Region:  strPtr("Europe"),
		Rank:    intPtr(2),
		Wins:    142,
		Losses:  51,
	})
	if err != nil {
		return err
	}

	vitality, err := store.CreateTeam(ctx, models.InsertTeam{
		Name:    "Team Vitality",
		Acronym: strPtr("VIT"),
		Country: strPtr("FRA"),
		Region:  strPtr("Europe"),
		Rank:    intPtr(3),
		Wins:    138,
		Losses:  47,
	})
	if err != nil {
		return err
	}

	players := []models.InsertPlayer{
		{TeamID: &navi.ID, Alias: "s1mple", RealName: strPtr("Oleksandr Kostyliev"), Country: strPtr("UKR"), Role: strPtr("AWPer"), TotalMatches: 1420, TotalKills: 31240, TotalDeaths: 21870, TotalAssists: 5120, AverageRating: 128},
		{TeamID: &navi.ID, Alias: "b1t", RealName: strPtr("Valerii Vakhovskyi"), Country: strPtr("UKR"), Role: strPtr("Rifler"), TotalMatches: 860, TotalKills: 15980, TotalDeaths: 13240, TotalAssists: 3410, AverageRating: 111},
		{TeamID: &faze.ID, Alias: "karrigan", RealName: strPtr("Finn Andersen"), Country: strPtr("DNK"), Role: strPtr("IGL"), TotalMatches: 1980, TotalKills: 29840, TotalDeaths: 29210, TotalAssists: 8120, AverageRating: 98},
		{TeamID: &faze.ID, Alias: "rain", RealName: strPtr("Havard Nygaard"), Country: strPtr("NOR"), Role: strPtr("Entry"), TotalMatches: 1850, TotalKills: 32110, TotalDeaths: 28930, TotalAssists: 6540, AverageRating: 105},
		{TeamID: &vitality.ID, Alias: "ZywOo", RealName: strPtr("Mathieu Herbaut"), Country: strPtr("FRA"), Role: strPtr("AWPer"), TotalMatches: 1120, TotalKills: 26840, TotalDeaths: 17920, TotalAssists: 4230, AverageRating: 131},
	}
	for _, p := range players {
		if _, err := store.CreatePlayer(ctx, p); err != nil {
			return err
		}
	}

	now := time.Now()
	matches := []models.InsertMatch{
		{
			Team1ID:    navi.ID,
			Team2ID:    faze.ID,
			Status:     models.MatchStatusLive,
			Tournament: strPtr("IEM Katowice"),
			Stage:      strPtr("Semifinal"),
			StartedAt:  timePtr(now.Add(-45 * time.Minute)),
			Team1Score: 9,
			Team2Score: 7,
			CurrentMap: strPtr("Mirage"),
			Maps:       []string{"Mirage", "Inferno", "Ancient"},
			StreamLinks: []models.StreamLink{
				{Platform: "twitch", URL: "https://twitch.tv/esl_csgo", Latency: "low"},
			},
		},
		{
			Team1ID:     vitality.ID,
			Team2ID:     navi.ID,
			Status:      models.MatchStatusUpcoming,
			Tournament:  strPtr("IEM Katowice"),
			Stage:       strPtr("Grand Final"),
			ScheduledAt: timePtr(now.Add(6 * time.Hour)),
			Maps:        []string{"Nuke", "Anubis", "Dust2"},
		},
		{
			Team1ID:    faze.ID,
			Team2ID:    vitality.ID,
			Status:     models.MatchStatusFinished,
			Tournament: strPtr("IEM Katowice"),
			Stage:      strPtr("Semifinal"),
			StartedAt:  timePtr(now.Add(-26 * time.Hour)),
			FinishedAt: timePtr(now.Add(-24 * time.Hour)),
			Team1Score: 13,
			Team2Score: 11,
			CurrentMap: strPtr("Inferno"),
			Maps:       []string{"Inferno", "Overpass"},
		},
	}
	for _, m := range matches {
		if _, err := store.CreateMatch(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDevUser provisions the development admin account used when AUTH_MODE
// is dev.
func EnsureDevUser(ctx context.Context, store Storage, id, email, role string) error {
	_, err := store.UpsertUser(ctx, models.UpsertUser{
		ID:        id,
		Email:     email,
		FirstName: strPtr("Dev"),
		LastName:  strPtr("User"),
		Role:      models.Role(role),
	})
	return err
}
