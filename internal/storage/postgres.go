package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cs2stats/cs2stats/internal/models"
)

// Postgres implements Storage on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool. The caller owns the pool's lifecycle.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func wrapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// jsonb marshals v for a jsonb column, keeping NULL for nil values.
func jsonb(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func fromJSONB[T any](raw []byte) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------------------- USERS & SESSIONS ----------------------

const userColumns = `id, email, first_name, last_name, profile_image_url, password_hash, role, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var hash *string
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL, &hash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	return &u, nil
}

func (p *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (p *Postgres) UpsertUser(ctx context.Context, data models.UpsertUser) (*models.User, error) {
	role := data.Role
	if role == "" {
		role = models.RoleUser
	}
	var hash *string
	if data.PasswordHash != "" {
		hash = &data.PasswordHash
	}
	var row pgx.Row
	if data.ID != "" {
		row = p.pool.QueryRow(ctx, `
			INSERT INTO users (id, email, first_name, last_name, profile_image_url, password_hash, role)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				email = EXCLUDED.email,
				first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				profile_image_url = EXCLUDED.profile_image_url,
				password_hash = COALESCE(EXCLUDED.password_hash, users.password_hash),
				updated_at = now()
			RETURNING `+userColumns,
			data.ID, data.Email, data.FirstName, data.LastName, data.ProfileImageURL, hash, role)
	} else {
		row = p.pool.QueryRow(ctx, `
			INSERT INTO users (email, first_name, last_name, profile_image_url, password_hash, role)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
			data.Email, data.FirstName, data.LastName, data.ProfileImageURL, hash, role)
	}
	return scanUser(row)
}

func (p *Postgres) CreateSession(ctx context.Context, userID, token string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sessions (token, user_id) VALUES ($1, $2)
		 ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = now()`,
		token, userID)
	return err
}

func (p *Postgres) DeleteSession(ctx context.Context, token string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// ---------------------- TEAMS ----------------------

const teamColumns = `id, name, acronym, country, logo_url, banner_url, region, rank, wins, losses, social_links, created_at, updated_at`

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	var social []byte
	err := row.Scan(&t.ID, &t.Name, &t.Acronym, &t.Country, &t.LogoURL, &t.BannerURL,
		&t.Region, &t.Rank, &t.Wins, &t.Losses, &social, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	links, err := fromJSONB[models.SocialLinks](social)
	if err != nil {
		return nil, err
	}
	t.SocialLinks = links
	return &t, nil
}

func (p *Postgres) GetTeams(ctx context.Context, limit, offset int) ([]models.Team, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+teamColumns+` FROM teams ORDER BY rank ASC NULLS LAST, name ASC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	teams := make([]models.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (p *Postgres) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	return scanTeam(p.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

func (p *Postgres) CreateTeam(ctx context.Context, data models.InsertTeam) (*models.Team, error) {
	social, err := jsonb(data.SocialLinks)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, `
		INSERT INTO teams (name, acronym, country, logo_url, banner_url, region, rank, wins, losses, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+teamColumns,
		data.Name, data.Acronym, data.Country, data.LogoURL, data.BannerURL,
		data.Region, data.Rank, data.Wins, data.Losses, social)
	return scanTeam(row)
}

func (p *Postgres) UpdateTeam(ctx context.Context, id string, data models.UpdateTeam) (*models.Team, error) {
	set := newSetBuilder()
	set.add("name", data.Name)
	set.add("acronym", data.Acronym)
	set.add("country", data.Country)
	set.add("logo_url", data.LogoURL)
	set.add("banner_url", data.BannerURL)
	set.add("region", data.Region)
	set.add("rank", data.Rank)
	set.add("wins", data.Wins)
	set.add("losses", data.Losses)
	if data.SocialLinks != nil {
		social, err := jsonb(data.SocialLinks)
		if err != nil {
			return nil, err
		}
		set.add("social_links", social)
	}
	query, args := set.build("teams", teamColumns, id)
	return scanTeam(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) DeleteTeam(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "teams", id)
}

// ---------------------- PLAYERS ----------------------

const playerColumns = `id, team_id, alias, real_name, country, avatar_url, role, steam_id,
	total_matches, total_kills, total_deaths, total_assists, average_rating, created_at, updated_at`

func scanPlayer(row pgx.Row) (*models.Player, error) {
	var pl models.Player
	err := row.Scan(&pl.ID, &pl.TeamID, &pl.Alias, &pl.RealName, &pl.Country, &pl.AvatarURL,
		&pl.Role, &pl.SteamID, &pl.TotalMatches, &pl.TotalKills, &pl.TotalDeaths,
		&pl.TotalAssists, &pl.AverageRating, &pl.CreatedAt, &pl.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &pl, nil
}

func (p *Postgres) GetPlayers(ctx context.Context, teamID string, limit, offset int) ([]models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players`
	args := []any{}
	if teamID != "" {
		query += ` WHERE team_id = $1`
		args = append(args, teamID)
	}
	query += fmt.Sprintf(` ORDER BY alias ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	players := make([]models.Player, 0)
	for rows.Next() {
		pl, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *pl)
	}
	return players, rows.Err()
}

func (p *Postgres) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return scanPlayer(p.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
}

func (p *Postgres) CreatePlayer(ctx context.Context, data models.InsertPlayer) (*models.Player, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO players (team_id, alias, real_name, country, avatar_url, role, steam_id,
			total_matches, total_kills, total_deaths, total_assists, average_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+playerColumns,
		data.TeamID, data.Alias, data.RealName, data.Country, data.AvatarURL, data.Role,
		data.SteamID, data.TotalMatches, data.TotalKills, data.TotalDeaths,
		data.TotalAssists, data.AverageRating)
	return scanPlayer(row)
}

func (p *Postgres) UpdatePlayer(ctx context.Context, id string, data models.UpdatePlayer) (*models.Player, error) {
	set := newSetBuilder()
	set.add("team_id", data.TeamID)
	set.add("alias", data.Alias)
	set.add("real_name", data.RealName)
	set.add("country", data.Country)
	set.add("avatar_url", data.AvatarURL)
	set.add("role", data.Role)
	set.add("steam_id", data.SteamID)
	set.add("total_matches", data.TotalMatches)
	set.add("total_kills", data.TotalKills)
	set.add("total_deaths", data.TotalDeaths)
	set.add("total_assists", data.TotalAssists)
	set.add("average_rating", data.AverageRating)
	query, args := set.build("players", playerColumns, id)
	return scanPlayer(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) DeletePlayer(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "players", id)
}

// ---------------------- MATCHES ----------------------

const matchColumns = `m.id, m.team1_id, m.team2_id, m.status, m.tournament, m.stage,
	m.scheduled_at, m.started_at, m.finished_at, m.team1_score, m.team2_score,
	m.current_map, m.maps, m.stream_links, m.created_at, m.updated_at`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	var streams []byte
	err := row.Scan(&m.ID, &m.Team1ID, &m.Team2ID, &m.Status, &m.Tournament, &m.Stage,
		&m.ScheduledAt, &m.StartedAt, &m.FinishedAt, &m.Team1Score, &m.Team2Score,
		&m.CurrentMap, &m.Maps, &streams, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if len(streams) > 0 {
		if err := json.Unmarshal(streams, &m.StreamLinks); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (p *Postgres) GetMatches(ctx context.Context, status string, limit, offset int) ([]models.MatchWithTeams, error) {
	query := `SELECT ` + matchColumns + ` FROM matches m`
	args := []any{}
	if status != "" {
		query += ` WHERE m.status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY m.scheduled_at DESC NULLS LAST LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	matches := make([]models.MatchWithTeams, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, models.MatchWithTeams{Match: *m})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range matches {
		if err := p.attachTeams(ctx, &matches[i]); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

func (p *Postgres) attachTeams(ctx context.Context, m *models.MatchWithTeams) error {
	team1, err := p.GetTeam(ctx, m.Team1ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	team2, err := p.GetTeam(ctx, m.Team2ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	m.Team1, m.Team2 = team1, team2
	return nil
}

func (p *Postgres) GetMatch(ctx context.Context, id string) (*models.MatchWithTeams, error) {
	m, err := scanMatch(p.pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches m WHERE m.id = $1`, id))
	if err != nil {
		return nil, err
	}
	out := models.MatchWithTeams{Match: *m}
	if err := p.attachTeams(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Postgres) CreateMatch(ctx context.Context, data models.InsertMatch) (*models.MatchWithTeams, error) {
	status := data.Status
	if status == "" {
		status = models.MatchStatusUpcoming
	}
	streams, err := jsonb(data.StreamLinks)
	if err != nil {
		return nil, err
	}
	m, err := scanMatch(p.pool.QueryRow(ctx, `
		INSERT INTO matches AS m (team1_id, team2_id, status, tournament, stage, scheduled_at,
			started_at, finished_at, team1_score, team2_score, current_map, maps, stream_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+matchColumns,
		data.Team1ID, data.Team2ID, status, data.Tournament, data.Stage, data.ScheduledAt,
		data.StartedAt, data.FinishedAt, data.Team1Score, data.Team2Score, data.CurrentMap,
		data.Maps, streams))
	if err != nil {
		return nil, err
	}
	out := models.MatchWithTeams{Match: *m}
	if err := p.attachTeams(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Postgres) UpdateMatch(ctx context.Context, id string, data models.UpdateMatch) (*models.Match, error) {
	set := newSetBuilder()
	set.add("team1_id", data.Team1ID)
	set.add("team2_id", data.Team2ID)
	set.add("status", data.Status)
	set.add("tournament", data.Tournament)
	set.add("stage", data.Stage)
	set.add("scheduled_at", data.ScheduledAt)
	set.add("started_at", data.StartedAt)
	set.add("finished_at", data.FinishedAt)
	set.add("team1_score", data.Team1Score)
	set.add("team2_score", data.Team2Score)
	set.add("current_map", data.CurrentMap)
	if data.Maps != nil {
		set.add("maps", data.Maps)
	}
	if data.StreamLinks != nil {
		streams, err := jsonb(data.StreamLinks)
		if err != nil {
			return nil, err
		}
		set.add("stream_links", streams)
	}
	query, args := set.build("matches m", matchColumns, id)
	return scanMatch(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) DeleteMatch(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "matches", id)
}

// ---------------------- MATCH EVENTS ----------------------

const eventColumns = `id, match_id, event_type, timestamp, description, player_id, metadata, created_at`

func scanMatchEvent(row pgx.Row) (*models.MatchEvent, error) {
	var e models.MatchEvent
	var meta []byte
	err := row.Scan(&e.ID, &e.MatchID, &e.EventType, &e.Timestamp, &e.Description,
		&e.PlayerID, &meta, &e.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	metadata, err := fromJSONB[models.EventMetadata](meta)
	if err != nil {
		return nil, err
	}
	e.Metadata = metadata
	return &e, nil
}

func (p *Postgres) GetMatchEvents(ctx context.Context, matchID string, limit int) ([]models.MatchEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM match_events WHERE match_id = $1 ORDER BY timestamp DESC LIMIT $2`,
		matchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]models.MatchEvent, 0)
	for rows.Next() {
		e, err := scanMatchEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (p *Postgres) CreateMatchEvent(ctx context.Context, data models.InsertMatchEvent) (*models.MatchEvent, error) {
	meta, err := jsonb(data.Metadata)
	if err != nil {
		return nil, err
	}
	row := p.pool.QueryRow(ctx, `
		INSERT INTO match_events (match_id, event_type, timestamp, description, player_id, metadata)
		VALUES ($1, $2, COALESCE($3, now()), $4, $5, $6)
		RETURNING `+eventColumns,
		data.MatchID, data.EventType, data.Timestamp, data.Description, data.PlayerID, meta)
	return scanMatchEvent(row)
}

// ---------------------- MATCH PLAYER STATS ----------------------

const statsColumns = `id, match_id, player_id, kills, deaths, assists, adr, headshot_percent,
	rating, opening_kills, created_at, updated_at`

func scanStats(row pgx.Row) (*models.MatchPlayerStats, error) {
	var s models.MatchPlayerStats
	err := row.Scan(&s.ID, &s.MatchID, &s.PlayerID, &s.Kills, &s.Deaths, &s.Assists,
		&s.ADR, &s.HeadshotPercent, &s.Rating, &s.OpeningKills, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &s, nil
}

func (p *Postgres) GetMatchPlayerStats(ctx context.Context, matchID string) ([]models.MatchPlayerStats, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+statsColumns+` FROM match_player_stats WHERE match_id = $1 ORDER BY rating DESC`,
		matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := make([]models.MatchPlayerStats, 0)
	for rows.Next() {
		s, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *s)
	}
	return stats, rows.Err()
}

func (p *Postgres) CreateMatchPlayerStats(ctx context.Context, data models.InsertMatchPlayerStats) (*models.MatchPlayerStats, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO match_player_stats (match_id, player_id, kills, deaths, assists, adr,
			headshot_percent, rating, opening_kills)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+statsColumns,
		data.MatchID, data.PlayerID, data.Kills, data.Deaths, data.Assists, data.ADR,
		data.HeadshotPercent, data.Rating, data.OpeningKills)
	return scanStats(row)
}

// ---------------------- NEWS ----------------------

const articleColumns = `id, author_id, title, subtitle, content, hero_image_url, tags, published, created_at, updated_at`

func scanArticle(row pgx.Row) (*models.NewsArticle, error) {
	var a models.NewsArticle
	err := row.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Subtitle, &a.Content,
		&a.HeroImageURL, &a.Tags, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &a, nil
}

func (p *Postgres) GetNewsArticles(ctx context.Context, published *bool, limit, offset int) ([]models.NewsArticle, error) {
	query := `SELECT ` + articleColumns + ` FROM news_articles`
	args := []any{}
	if published != nil {
		query += ` WHERE published = $1`
		args = append(args, *published)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	articles := make([]models.NewsArticle, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func (p *Postgres) GetNewsArticle(ctx context.Context, id string) (*models.NewsArticle, error) {
	return scanArticle(p.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM news_articles WHERE id = $1`, id))
}

func (p *Postgres) CreateNewsArticle(ctx context.Context, data models.InsertNewsArticle) (*models.NewsArticle, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO news_articles (author_id, title, subtitle, content, hero_image_url, tags, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+articleColumns,
		data.AuthorID, data.Title, data.Subtitle, data.Content, data.HeroImageURL, data.Tags, data.Published)
	return scanArticle(row)
}

func (p *Postgres) UpdateNewsArticle(ctx context.Context, id string, data models.UpdateNewsArticle) (*models.NewsArticle, error) {
	set := newSetBuilder()
	set.add("title", data.Title)
	set.add("subtitle", data.Subtitle)
	set.add("content", data.Content)
	set.add("hero_image_url", data.HeroImageURL)
	if data.Tags != nil {
		set.add("tags", data.Tags)
	}
	set.add("published", data.Published)
	query, args := set.build("news_articles", articleColumns, id)
	return scanArticle(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) DeleteNewsArticle(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "news_articles", id)
}

// ---------------------- COMMENTS ----------------------

const commentColumns = `id, user_id, match_id, article_id, parent_comment_id, content, likes,
	flagged, removed, removal_reason, removed_by, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.MatchID, &c.ArticleID, &c.ParentCommentID,
		&c.Content, &c.Likes, &c.Flagged, &c.Removed, &c.RemovalReason, &c.RemovedBy,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}

func (p *Postgres) GetComments(ctx context.Context, filter CommentFilter) ([]models.Comment, error) {
	where := []string{"removed = false"}
	args := []any{}
	if filter.MatchID != "" {
		args = append(args, filter.MatchID)
		where = append(where, fmt.Sprintf("match_id = $%d", len(args)))
	}
	if filter.ArticleID != "" {
		args = append(args, filter.ArticleID)
		where = append(where, fmt.Sprintf("article_id = $%d", len(args)))
	}
	if filter.ParentSet {
		if filter.ParentCommentID == nil {
			where = append(where, "parent_comment_id IS NULL")
		} else {
			args = append(args, *filter.ParentCommentID)
			where = append(where, fmt.Sprintf("parent_comment_id = $%d", len(args)))
		}
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := make([]models.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (p *Postgres) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return scanComment(p.pool.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
}

func (p *Postgres) CreateComment(ctx context.Context, data models.InsertComment) (*models.Comment, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO comments (user_id, match_id, article_id, parent_comment_id, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+commentColumns,
		data.UserID, data.MatchID, data.ArticleID, data.ParentCommentID, data.Content)
	return scanComment(row)
}

func (p *Postgres) UpdateComment(ctx context.Context, id string, data models.UpdateComment) (*models.Comment, error) {
	set := newSetBuilder()
	set.add("content", data.Content)
	set.add("likes", data.Likes)
	set.add("flagged", data.Flagged)
	set.add("removed", data.Removed)
	set.add("removal_reason", data.RemovalReason)
	set.add("removed_by", data.RemovedBy)
	query, args := set.build("comments", commentColumns, id)
	return scanComment(p.pool.QueryRow(ctx, query, args...))
}

func (p *Postgres) DeleteComment(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "comments", id)
}

// ---------------------- COMMENT FLAGS ----------------------

const flagColumns = `id, comment_id, user_id, reason, additional_info, reviewed, created_at`

func scanFlag(row pgx.Row) (*models.CommentFlag, error) {
	var f models.CommentFlag
	err := row.Scan(&f.ID, &f.CommentID, &f.UserID, &f.Reason, &f.AdditionalInfo, &f.Reviewed, &f.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &f, nil
}

func (p *Postgres) GetCommentFlags(ctx context.Context, reviewed *bool) ([]models.CommentFlag, error) {
	query := `SELECT ` + flagColumns + ` FROM comment_flags`
	args := []any{}
	if reviewed != nil {
		query += ` WHERE reviewed = $1`
		args = append(args, *reviewed)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	flags := make([]models.CommentFlag, 0)
	for rows.Next() {
		f, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, *f)
	}
	return flags, rows.Err()
}

func (p *Postgres) CreateCommentFlag(ctx context.Context, data models.InsertCommentFlag) (*models.CommentFlag, error) {
	flag, err := scanFlag(p.pool.QueryRow(ctx, `
		INSERT INTO comment_flags (comment_id, user_id, reason, additional_info)
		VALUES ($1, $2, $3, $4)
		RETURNING `+flagColumns,
		data.CommentID, data.UserID, data.Reason, data.AdditionalInfo))
	if err != nil {
		return nil, err
	}
	_, err = p.pool.Exec(ctx, `UPDATE comments SET flagged = true WHERE id = $1`, data.CommentID)
	if err != nil {
		return nil, err
	}
	return flag, nil
}

func (p *Postgres) UpdateCommentFlag(ctx context.Context, id string, reviewed bool) (*models.CommentFlag, error) {
	return scanFlag(p.pool.QueryRow(ctx,
		`UPDATE comment_flags SET reviewed = $2 WHERE id = $1 RETURNING `+flagColumns,
		id, reviewed))
}

// ---------------------- FAVORITES ----------------------

const favoriteColumns = `id, user_id, team_id, player_id, created_at`

func scanFavorite(row pgx.Row) (*models.UserFavorite, error) {
	var f models.UserFavorite
	err := row.Scan(&f.ID, &f.UserID, &f.TeamID, &f.PlayerID, &f.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &f, nil
}

func (p *Postgres) GetUserFavorites(ctx context.Context, userID string) ([]models.UserFavorite, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+favoriteColumns+` FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	favorites := make([]models.UserFavorite, 0)
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, *f)
	}
	return favorites, rows.Err()
}

func (p *Postgres) CreateUserFavorite(ctx context.Context, data models.InsertUserFavorite) (*models.UserFavorite, error) {
	return scanFavorite(p.pool.QueryRow(ctx, `
		INSERT INTO user_favorites (user_id, team_id, player_id)
		VALUES ($1, $2, $3)
		RETURNING `+favoriteColumns,
		data.UserID, data.TeamID, data.PlayerID))
}

func (p *Postgres) DeleteUserFavorite(ctx context.Context, id string) error {
	return p.deleteByID(ctx, "user_favorites", id)
}

// ---------------------- NOTIFICATIONS ----------------------

const notificationColumns = `id, user_id, type, title, message, link, read, created_at`

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &n, nil
}

func (p *Postgres) GetNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifications := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (p *Postgres) CreateNotification(ctx context.Context, data models.InsertNotification) (*models.Notification, error) {
	return scanNotification(p.pool.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message, link)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		data.UserID, data.Type, data.Title, data.Message, data.Link))
}

func (p *Postgres) MarkNotificationAsRead(ctx context.Context, id string) (*models.Notification, error) {
	return scanNotification(p.pool.QueryRow(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 RETURNING `+notificationColumns,
		id))
}

// ---------------------- SETTINGS ----------------------

const settingsColumns = `id, user_id, theme, email_notifications, push_notifications,
	match_start_alerts, comment_reply_alerts, newsletter, public_profile, created_at, updated_at`

func scanSettings(row pgx.Row) (*models.UserSettings, error) {
	var s models.UserSettings
	err := row.Scan(&s.ID, &s.UserID, &s.Theme, &s.EmailNotifications, &s.PushNotifications,
		&s.MatchStartAlerts, &s.CommentReplyAlerts, &s.Newsletter, &s.PublicProfile,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &s, nil
}

func (p *Postgres) GetUserSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	return scanSettings(p.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM user_settings WHERE user_id = $1`, userID))
}

func (p *Postgres) UpsertUserSettings(ctx context.Context, data models.UpsertUserSettings) (*models.UserSettings, error) {
	return scanSettings(p.pool.QueryRow(ctx, `
		INSERT INTO user_settings (user_id, theme, email_notifications, push_notifications,
			match_start_alerts, comment_reply_alerts, newsletter, public_profile)
		VALUES ($1,
			COALESCE($2, 'system'),
			COALESCE($3, true), COALESCE($4, true), COALESCE($5, true),
			COALESCE($6, true), COALESCE($7, false), COALESCE($8, true))
		ON CONFLICT (user_id) DO UPDATE SET
			theme = COALESCE($2, user_settings.theme),
			email_notifications = COALESCE($3, user_settings.email_notifications),
			push_notifications = COALESCE($4, user_settings.push_notifications),
			match_start_alerts = COALESCE($5, user_settings.match_start_alerts),
			comment_reply_alerts = COALESCE($6, user_settings.comment_reply_alerts),
			newsletter = COALESCE($7, user_settings.newsletter),
			public_profile = COALESCE($8, user_settings.public_profile),
			updated_at = now()
		RETURNING `+settingsColumns,
		data.UserID, data.Theme, data.EmailNotifications, data.PushNotifications,
		data.MatchStartAlerts, data.CommentReplyAlerts, data.Newsletter, data.PublicProfile))
}

// ---------------------- LEADERBOARD ----------------------

func (p *Postgres) GetLeaderboard(ctx context.Context, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := p.pool.Query(ctx,
		`SELECT `+playerColumns+` FROM players ORDER BY average_rating DESC, total_kills DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	players := make([]models.Player, 0)
	for rows.Next() {
		pl, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *pl)
	}
	return players, rows.Err()
}

// ---------------------- HELPERS ----------------------

func (p *Postgres) deleteByID(ctx context.Context, table, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// setBuilder accumulates SET clauses with positional placeholders for a
// partial UPDATE. Typed nil pointers are skipped so absent request fields
// leave columns untouched.
type setBuilder struct {
	clauses []string
	args    []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) add(column string, value any) {
	if value == nil {
		return
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return
	}
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// build renders the UPDATE. The table name may carry an alias ("matches m")
// when the RETURNING columns are alias-qualified.
func (b *setBuilder) build(table, returning, id string) (string, []any) {
	b.clauses = append(b.clauses, "updated_at = now()")
	b.args = append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(b.clauses, ", "), len(b.args), returning)
	return query, b.args
}
