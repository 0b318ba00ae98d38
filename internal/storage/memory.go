package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cs2stats/cs2stats/internal/models"
)

// Memory is a map-backed Storage used when no database is configured. It is
// safe for concurrent use. Data does not survive a restart.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]*models.User
	sessions     map[string]string // token -> user id
	teams        map[string]*models.Team
	players      map[string]*models.Player
	matches      map[string]*models.Match
	events       map[string]*models.MatchEvent
	stats        map[string]*models.MatchPlayerStats
	articles     map[string]*models.NewsArticle
	comments     map[string]*models.Comment
	flags        map[string]*models.CommentFlag
	favorites    map[string]*models.UserFavorite
	notification map[string]*models.Notification
	settings     map[string]*models.UserSettings // keyed by user id
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:        make(map[string]*models.User),
		sessions:     make(map[string]string),
		teams:        make(map[string]*models.Team),
		players:      make(map[string]*models.Player),
		matches:      make(map[string]*models.Match),
		events:       make(map[string]*models.MatchEvent),
		stats:        make(map[string]*models.MatchPlayerStats),
		articles:     make(map[string]*models.NewsArticle),
		comments:     make(map[string]*models.Comment),
		flags:        make(map[string]*models.CommentFlag),
		favorites:    make(map[string]*models.UserFavorite),
		notification: make(map[string]*models.Notification),
		settings:     make(map[string]*models.UserSettings),
	}
}

func newID() string { return uuid.NewString() }

// ---------------------- USERS & SESSIONS ----------------------

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UpsertUser(_ context.Context, data models.UpsertUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()

	if data.ID != "" {
		if existing, ok := m.users[data.ID]; ok {
			existing.Email = data.Email
			existing.FirstName = data.FirstName
			existing.LastName = data.LastName
			existing.ProfileImageURL = data.ProfileImageURL
			if data.PasswordHash != "" {
				existing.PasswordHash = data.PasswordHash
			}
			if data.Role != "" {
				existing.Role = data.Role
			}
			existing.UpdatedAt = now
			copied := *existing
			return &copied, nil
		}
	}

	role := data.Role
	if role == "" {
		role = models.RoleUser
	}
	id := data.ID
	if id == "" {
		id = newID()
	}
	user := &models.User{
		ID:              id,
		Email:           data.Email,
		FirstName:       data.FirstName,
		LastName:        data.LastName,
		ProfileImageURL: data.ProfileImageURL,
		PasswordHash:    data.PasswordHash,
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (m *Memory) CreateSession(_ context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = userID
	return nil
}

func (m *Memory) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// ---------------------- TEAMS ----------------------

func (m *Memory) GetTeams(_ context.Context, limit, offset int) ([]models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	teams := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		teams = append(teams, *t)
	}
	// Ranked teams first, best rank on top, matching the SQL ordering.
	sort.Slice(teams, func(i, j int) bool {
		ri, rj := teams[i].Rank, teams[j].Rank
		switch {
		case ri == nil && rj == nil:
			return teams[i].Name < teams[j].Name
		case ri == nil:
			return false
		case rj == nil:
			return true
		default:
			return *ri < *rj
		}
	})
	return paginate(teams, limit, offset), nil
}

func (m *Memory) GetTeam(_ context.Context, id string) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.teamLocked(id)
}

func (m *Memory) teamLocked(id string) (*models.Team, error) {
	team, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *team
	return &copied, nil
}

func (m *Memory) CreateTeam(_ context.Context, data models.InsertTeam) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	team := &models.Team{
		ID:          newID(),
		Name:        data.Name,
		Acronym:     data.Acronym,
		Country:     data.Country,
		LogoURL:     data.LogoURL,
		BannerURL:   data.BannerURL,
		Region:      data.Region,
		Rank:        data.Rank,
		Wins:        data.Wins,
		Losses:      data.Losses,
		SocialLinks: data.SocialLinks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.teams[team.ID] = team
	copied := *team
	return &copied, nil
}

func (m *Memory) UpdateTeam(_ context.Context, id string, data models.UpdateTeam) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	if data.Name != nil {
		team.Name = *data.Name
	}
	if data.Acronym != nil {
		team.Acronym = data.Acronym
	}
	if data.Country != nil {
		team.Country = data.Country
	}
	if data.LogoURL != nil {
		team.LogoURL = data.LogoURL
	}
	if data.BannerURL != nil {
		team.BannerURL = data.BannerURL
	}
	if data.Region != nil {
		team.Region = data.Region
	}
	if data.Rank != nil {
		team.Rank = data.Rank
	}
	if data.Wins != nil {
		team.Wins = *data.Wins
	}
	if data.Losses != nil {
		team.Losses = *data.Losses
	}
	if data.SocialLinks != nil {
		team.SocialLinks = data.SocialLinks
	}
	team.UpdatedAt = time.Now()
	copied := *team
	return &copied, nil
}

func (m *Memory) DeleteTeam(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[id]; !ok {
		return ErrNotFound
	}
	delete(m.teams, id)
	return nil
}

// ---------------------- PLAYERS ----------------------

func (m *Memory) GetPlayers(_ context.Context, teamID string, limit, offset int) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	players := make([]models.Player, 0, len(m.players))
	for _, p := range m.players {
		if teamID != "" && (p.TeamID == nil || *p.TeamID != teamID) {
			continue
		}
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Alias < players[j].Alias })
	return paginate(players, limit, offset), nil
}

func (m *Memory) GetPlayer(_ context.Context, id string) (*models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	player, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *player
	return &copied, nil
}

func (m *Memory) CreatePlayer(_ context.Context, data models.InsertPlayer) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	player := &models.Player{
		ID:            newID(),
		TeamID:        data.TeamID,
		Alias:         data.Alias,
		RealName:      data.RealName,
		Country:       data.Country,
		AvatarURL:     data.AvatarURL,
		Role:          data.Role,
		SteamID:       data.SteamID,
		TotalMatches:  data.TotalMatches,
		TotalKills:    data.TotalKills,
		TotalDeaths:   data.TotalDeaths,
		TotalAssists:  data.TotalAssists,
		AverageRating: data.AverageRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.players[player.ID] = player
	copied := *player
	return &copied, nil
}

func (m *Memory) UpdatePlayer(_ context.Context, id string, data models.UpdatePlayer) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[id]
	if !ok {
		return nil, ErrNotFound
	}
	if data.TeamID != nil {
		player.TeamID = data.TeamID
	}
	if data.Alias != nil {
		player.Alias = *data.Alias
	}
	if data.RealName != nil {
		player.RealName = data.RealName
	}
	if data.Country != nil {
		player.Country = data.Country
	}
	if data.AvatarURL != nil {
		player.AvatarURL = data.AvatarURL
	}
	if data.Role != nil {
		player.Role = data.Role
	}
	if data.SteamID != nil {
		player.SteamID = data.SteamID
	}
	if data.TotalMatches != nil {
		player.TotalMatches = *data.TotalMatches
	}
	if data.TotalKills != nil {
		player.TotalKills = *data.TotalKills
	}
	if data.TotalDeaths != nil {
		player.TotalDeaths = *data.TotalDeaths
	}
	if data.TotalAssists != nil {
		player.TotalAssists = *data.TotalAssists
	}
	if data.AverageRating != nil {
		player.AverageRating = *data.AverageRating
	}
	player.UpdatedAt = time.Now()
	copied := *player
	return &copied, nil
}

func (m *Memory) DeletePlayer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[id]; !ok {
		return ErrNotFound
	}
	delete(m.players, id)
	return nil
}

// ---------------------- MATCHES ----------------------

func (m *Memory) GetMatches(_ context.Context, status string, limit, offset int) ([]models.MatchWithTeams, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matches := make([]models.MatchWithTeams, 0, len(m.matches))
	for _, match := range m.matches {
		if status != "" && string(match.Status) != status {
			continue
		}
		matches = append(matches, m.withTeamsLocked(match))
	}
	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].ScheduledAt, matches[j].ScheduledAt
		switch {
		case si == nil && sj == nil:
			return matches[i].ID < matches[j].ID
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return si.After(*sj)
		}
	})
	return paginate(matches, limit, offset), nil
}

func (m *Memory) withTeamsLocked(match *models.Match) models.MatchWithTeams {
	out := models.MatchWithTeams{Match: *match}
	if team, ok := m.teams[match.Team1ID]; ok {
		copied := *team
		out.Team1 = &copied
	}
	if team, ok := m.teams[match.Team2ID]; ok {
		copied := *team
		out.Team2 = &copied
	}
	return out
}

func (m *Memory) GetMatch(_ context.Context, id string) (*models.MatchWithTeams, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := m.withTeamsLocked(match)
	return &out, nil
}

func (m *Memory) CreateMatch(_ context.Context, data models.InsertMatch) (*models.MatchWithTeams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	status := data.Status
	if status == "" {
		status = models.MatchStatusUpcoming
	}
	match := &models.Match{
		ID:          newID(),
		Team1ID:     data.Team1ID,
		Team2ID:     data.Team2ID,
		Status:      status,
		Tournament:  data.Tournament,
		Stage:       data.Stage,
		ScheduledAt: data.ScheduledAt,
		StartedAt:   data.StartedAt,
		FinishedAt:  data.FinishedAt,
		Team1Score:  data.Team1Score,
		Team2Score:  data.Team2Score,
		CurrentMap:  data.CurrentMap,
		Maps:        data.Maps,
		StreamLinks: data.StreamLinks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.matches[match.ID] = match
	out := m.withTeamsLocked(match)
	return &out, nil
}

func (m *Memory) UpdateMatch(_ context.Context, id string, data models.UpdateMatch) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, ErrNotFound
	}
	if data.Team1ID != nil {
		match.Team1ID = *data.Team1ID
	}
	if data.Team2ID != nil {
		match.Team2ID = *data.Team2ID
	}
	if data.Status != nil {
		match.Status = *data.Status
	}
	if data.Tournament != nil {
		match.Tournament = data.Tournament
	}
	if data.Stage != nil {
		match.Stage = data.Stage
	}
	if data.ScheduledAt != nil {
		match.ScheduledAt = data.ScheduledAt
	}
	if data.StartedAt != nil {
		match.StartedAt = data.StartedAt
	}
	if data.FinishedAt != nil {
		match.FinishedAt = data.FinishedAt
	}
	if data.Team1Score != nil {
		match.Team1Score = *data.Team1Score
	}
	if data.Team2Score != nil {
		match.Team2Score = *data.Team2Score
	}
	if data.CurrentMap != nil {
		match.CurrentMap = data.CurrentMap
	}
	if data.Maps != nil {
		match.Maps = data.Maps
	}
	if data.StreamLinks != nil {
		match.StreamLinks = data.StreamLinks
	}
	match.UpdatedAt = time.Now()
	copied := *match
	return &copied, nil
}

func (m *Memory) DeleteMatch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[id]; !ok {
		return ErrNotFound
	}
	delete(m.matches, id)
	// Cascade as the schema's ON DELETE CASCADE would.
	for eid, event := range m.events {
		if event.MatchID == id {
			delete(m.events, eid)
		}
	}
	for sid, stat := range m.stats {
		if stat.MatchID == id {
			delete(m.stats, sid)
		}
	}
	return nil
}

// ---------------------- MATCH EVENTS ----------------------

func (m *Memory) GetMatchEvents(_ context.Context, matchID string, limit int) ([]models.MatchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	events := make([]models.MatchEvent, 0)
	for _, event := range m.events {
		if event.MatchID == matchID {
			events = append(events, *event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Timestamp.After(events[j].Timestamp) })
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (m *Memory) CreateMatchEvent(_ context.Context, data models.InsertMatchEvent) (*models.MatchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	ts := now
	if data.Timestamp != nil {
		ts = *data.Timestamp
	}
	event := &models.MatchEvent{
		ID:          newID(),
		MatchID:     data.MatchID,
		EventType:   data.EventType,
		Timestamp:   ts,
		Description: data.Description,
		PlayerID:    data.PlayerID,
		Metadata:    data.Metadata,
		CreatedAt:   now,
	}
	m.events[event.ID] = event
	copied := *event
	return &copied, nil
}

// ---------------------- MATCH PLAYER STATS ----------------------

func (m *Memory) GetMatchPlayerStats(_ context.Context, matchID string) ([]models.MatchPlayerStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := make([]models.MatchPlayerStats, 0)
	for _, s := range m.stats {
		if s.MatchID == matchID {
			stats = append(stats, *s)
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Rating > stats[j].Rating })
	return stats, nil
}

func (m *Memory) CreateMatchPlayerStats(_ context.Context, data models.InsertMatchPlayerStats) (*models.MatchPlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	stats := &models.MatchPlayerStats{
		ID:              newID(),
		MatchID:         data.MatchID,
		PlayerID:        data.PlayerID,
		Kills:           data.Kills,
		Deaths:          data.Deaths,
		Assists:         data.Assists,
		ADR:             data.ADR,
		HeadshotPercent: data.HeadshotPercent,
		Rating:          data.Rating,
		OpeningKills:    data.OpeningKills,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.stats[stats.ID] = stats
	copied := *stats
	return &copied, nil
}

// ---------------------- NEWS ----------------------

func (m *Memory) GetNewsArticles(_ context.Context, published *bool, limit, offset int) ([]models.NewsArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	articles := make([]models.NewsArticle, 0, len(m.articles))
	for _, a := range m.articles {
		if published != nil && a.Published != *published {
			continue
		}
		articles = append(articles, *a)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].CreatedAt.After(articles[j].CreatedAt) })
	return paginate(articles, limit, offset), nil
}

func (m *Memory) GetNewsArticle(_ context.Context, id string) (*models.NewsArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *article
	return &copied, nil
}

func (m *Memory) CreateNewsArticle(_ context.Context, data models.InsertNewsArticle) (*models.NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	article := &models.NewsArticle{
		ID:           newID(),
		AuthorID:     data.AuthorID,
		Title:        data.Title,
		Subtitle:     data.Subtitle,
		Content:      data.Content,
		HeroImageURL: data.HeroImageURL,
		Tags:         data.Tags,
		Published:    data.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.articles[article.ID] = article
	copied := *article
	return &copied, nil
}

func (m *Memory) UpdateNewsArticle(_ context.Context, id string, data models.UpdateNewsArticle) (*models.NewsArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	if data.Title != nil {
		article.Title = *data.Title
	}
	if data.Subtitle != nil {
		article.Subtitle = data.Subtitle
	}
	if data.Content != nil {
		article.Content = *data.Content
	}
	if data.HeroImageURL != nil {
		article.HeroImageURL = data.HeroImageURL
	}
	if data.Tags != nil {
		article.Tags = data.Tags
	}
	if data.Published != nil {
		article.Published = *data.Published
	}
	article.UpdatedAt = time.Now()
	copied := *article
	return &copied, nil
}

func (m *Memory) DeleteNewsArticle(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

// ---------------------- COMMENTS ----------------------

func (m *Memory) GetComments(_ context.Context, filter CommentFilter) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comments := make([]models.Comment, 0)
	for _, c := range m.comments {
		if c.Removed {
			continue
		}
		if filter.MatchID != "" && (c.MatchID == nil || *c.MatchID != filter.MatchID) {
			continue
		}
		if filter.ArticleID != "" && (c.ArticleID == nil || *c.ArticleID != filter.ArticleID) {
			continue
		}
		if filter.ParentSet {
			if filter.ParentCommentID == nil {
				if c.ParentCommentID != nil {
					continue
				}
			} else if c.ParentCommentID == nil || *c.ParentCommentID != *filter.ParentCommentID {
				continue
			}
		}
		comments = append(comments, *c)
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.After(comments[j].CreatedAt) })
	return comments, nil
}

func (m *Memory) GetComment(_ context.Context, id string) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (m *Memory) CreateComment(_ context.Context, data models.InsertComment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	comment := &models.Comment{
		ID:              newID(),
		UserID:          data.UserID,
		MatchID:         data.MatchID,
		ArticleID:       data.ArticleID,
		ParentCommentID: data.ParentCommentID,
		Content:         data.Content,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.comments[comment.ID] = comment
	copied := *comment
	return &copied, nil
}

func (m *Memory) UpdateComment(_ context.Context, id string, data models.UpdateComment) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if data.Content != nil {
		comment.Content = *data.Content
	}
	if data.Likes != nil {
		comment.Likes = *data.Likes
	}
	if data.Flagged != nil {
		comment.Flagged = *data.Flagged
	}
	if data.Removed != nil {
		comment.Removed = *data.Removed
	}
	if data.RemovalReason != nil {
		comment.RemovalReason = data.RemovalReason
	}
	if data.RemovedBy != nil {
		comment.RemovedBy = data.RemovedBy
	}
	comment.UpdatedAt = time.Now()
	copied := *comment
	return &copied, nil
}

func (m *Memory) DeleteComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// ---------------------- COMMENT FLAGS ----------------------

func (m *Memory) GetCommentFlags(_ context.Context, reviewed *bool) ([]models.CommentFlag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	flags := make([]models.CommentFlag, 0)
	for _, f := range m.flags {
		if reviewed != nil && f.Reviewed != *reviewed {
			continue
		}
		flags = append(flags, *f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].CreatedAt.After(flags[j].CreatedAt) })
	return flags, nil
}

func (m *Memory) CreateCommentFlag(_ context.Context, data models.InsertCommentFlag) (*models.CommentFlag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flag := &models.CommentFlag{
		ID:             newID(),
		CommentID:      data.CommentID,
		UserID:         data.UserID,
		Reason:         data.Reason,
		AdditionalInfo: data.AdditionalInfo,
		CreatedAt:      time.Now(),
	}
	m.flags[flag.ID] = flag
	if comment, ok := m.comments[data.CommentID]; ok {
		comment.Flagged = true
	}
	copied := *flag
	return &copied, nil
}

func (m *Memory) UpdateCommentFlag(_ context.Context, id string, reviewed bool) (*models.CommentFlag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	flag, ok := m.flags[id]
	if !ok {
		return nil, ErrNotFound
	}
	flag.Reviewed = reviewed
	copied := *flag
	return &copied, nil
}

// ---------------------- FAVORITES ----------------------

func (m *Memory) GetUserFavorites(_ context.Context, userID string) ([]models.UserFavorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	favorites := make([]models.UserFavorite, 0)
	for _, f := range m.favorites {
		if f.UserID == userID {
			favorites = append(favorites, *f)
		}
	}
	sort.Slice(favorites, func(i, j int) bool { return favorites[i].CreatedAt.After(favorites[j].CreatedAt) })
	return favorites, nil
}

func (m *Memory) CreateUserFavorite(_ context.Context, data models.InsertUserFavorite) (*models.UserFavorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	favorite := &models.UserFavorite{
		ID:        newID(),
		UserID:    data.UserID,
		TeamID:    data.TeamID,
		PlayerID:  data.PlayerID,
		CreatedAt: time.Now(),
	}
	m.favorites[favorite.ID] = favorite
	copied := *favorite
	return &copied, nil
}

func (m *Memory) DeleteUserFavorite(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.favorites[id]; !ok {
		return ErrNotFound
	}
	delete(m.favorites, id)
	return nil
}

// ---------------------- NOTIFICATIONS ----------------------

func (m *Memory) GetNotifications(_ context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	notifications := make([]models.Notification, 0)
	for _, n := range m.notification {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		notifications = append(notifications, *n)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (m *Memory) CreateNotification(_ context.Context, data models.InsertNotification) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification := &models.Notification{
		ID:        newID(),
		UserID:    data.UserID,
		Type:      data.Type,
		Title:     data.Title,
		Message:   data.Message,
		Link:      data.Link,
		CreatedAt: time.Now(),
	}
	m.notification[notification.ID] = notification
	copied := *notification
	return &copied, nil
}

func (m *Memory) MarkNotificationAsRead(_ context.Context, id string) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification, ok := m.notification[id]
	if !ok {
		return nil, ErrNotFound
	}
	notification.Read = true
	copied := *notification
	return &copied, nil
}

// ---------------------- SETTINGS ----------------------

func (m *Memory) GetUserSettings(_ context.Context, userID string) (*models.UserSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings, ok := m.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (m *Memory) UpsertUserSettings(_ context.Context, data models.UpsertUserSettings) (*models.UserSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	settings, ok := m.settings[data.UserID]
	if !ok {
		settings = &models.UserSettings{
			ID:                 newID(),
			UserID:             data.UserID,
			Theme:              "system",
			EmailNotifications: true,
			PushNotifications:  true,
			MatchStartAlerts:   true,
			CommentReplyAlerts: true,
			PublicProfile:      true,
			CreatedAt:          now,
		}
		m.settings[data.UserID] = settings
	}
	if data.Theme != nil {
		settings.Theme = *data.Theme
	}
	if data.EmailNotifications != nil {
		settings.EmailNotifications = *data.EmailNotifications
	}
	if data.PushNotifications != nil {
		settings.PushNotifications = *data.PushNotifications
	}
	if data.MatchStartAlerts != nil {
		settings.MatchStartAlerts = *data.MatchStartAlerts
	}
	if data.CommentReplyAlerts != nil {
		settings.CommentReplyAlerts = *data.CommentReplyAlerts
	}
	if data.Newsletter != nil {
		settings.Newsletter = *data.Newsletter
	}
	if data.PublicProfile != nil {
		settings.PublicProfile = *data.PublicProfile
	}
	settings.UpdatedAt = now
	copied := *settings
	return &copied, nil
}

// ---------------------- LEADERBOARD ----------------------

func (m *Memory) GetLeaderboard(_ context.Context, limit int) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	players := make([]models.Player, 0, len(m.players))
	for _, p := range m.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].AverageRating != players[j].AverageRating {
			return players[i].AverageRating > players[j].AverageRating
		}
		return players[i].TotalKills > players[j].TotalKills
	})
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
