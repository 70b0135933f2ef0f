package members

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a chat has no stored row.
var ErrNotFound = errors.New("members: not found")

// Repository persists chats and their members in Postgres.
type Repository struct {
	DB *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{DB: db}
}

// EnsureChat inserts the chat with lang unless it already exists.
func (s *Repository) EnsureChat(ctx context.Context, chatID int64, lang string) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO chats (chat_id, language) VALUES ($1, $2)
	ON CONFLICT (chat_id) DO NOTHING`, chatID, lang)
	if err != nil {
		return fmt.Errorf("ensure chat %d: %w", chatID, err)
	}
	return nil
}

func (s *Repository) GetChatLanguage(ctx context.Context, chatID int64) (string, error) {
	var lang string
	err := s.DB.QueryRow(ctx, `SELECT language FROM chats WHERE chat_id=$1`, chatID).Scan(&lang)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get chat language %d: %w", chatID, err)
	}
	return lang, nil
}

func (s *Repository) SetChatLanguage(ctx context.Context, chatID int64, lang string) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO chats (chat_id, language) VALUES ($1, $2)
	ON CONFLICT (chat_id) DO UPDATE SET language=EXCLUDED.language`, chatID, lang)
	if err != nil {
		return fmt.Errorf("set chat language %d: %w", chatID, err)
	}
	return nil
}

func (s *Repository) UpsertMember(ctx context.Context, chatID int64, u tgbotapi.User) error {
	_, err := s.DB.Exec(ctx, `INSERT INTO chat_members (chat_id, user_id, first_name, last_name, username, updated_at)
	VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NOW())
	ON CONFLICT (chat_id, user_id) DO UPDATE SET first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name, username=EXCLUDED.username, updated_at=NOW()`,
		chatID, u.ID, u.FirstName, u.LastName, u.UserName,
	)
	if err != nil {
		return fmt.Errorf("upsert member %d/%d: %w", chatID, u.ID, err)
	}
	return nil
}

// SetBirthday stores a YYYY-MM-DD birthday for an existing member.
func (s *Repository) SetBirthday(ctx context.Context, chatID, userID int64, birthday string) error {
	_, err := s.DB.Exec(ctx, `UPDATE chat_members SET birthday=$3::date, updated_at=NOW() WHERE chat_id=$1 AND user_id=$2`,
		chatID, userID, birthday)
	if err != nil {
		return fmt.Errorf("set birthday %d/%d: %w", chatID, userID, err)
	}
	return nil
}

func (s *Repository) ListMembers(ctx context.Context, chatID int64) ([]ChatMemberRecord, error) {
	rows, err := s.DB.Query(ctx, `SELECT user_id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(username,'')
	FROM chat_members WHERE chat_id=$1 ORDER BY user_id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("list members %d: %w", chatID, err)
	}
	defer rows.Close()
	var ms []ChatMemberRecord
	for rows.Next() {
		var m ChatMemberRecord
		if err := rows.Scan(&m.UserID, &m.FirstName, &m.LastName, &m.Username); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}

func (s *Repository) ListChats(ctx context.Context) ([]ChatRecord, error) {
	rows, err := s.DB.Query(ctx, `SELECT chat_id, language FROM chats ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()
	var cs []ChatRecord
	for rows.Next() {
		var c ChatRecord
		if err := rows.Scan(&c.ChatID, &c.Language); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
