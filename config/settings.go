package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 環境変数で上書きする項目
const (
	EnvGitHubToken    = "GITHUB_ACCESS_TOKEN"
	EnvGitHubEndpoint = "GITHUB_API_ENDPOINT"
	EnvSlackToken     = "SLACK_ACCESS_TOKEN"
	EnvDatabasePath   = "DATABASE_PATH"
)

type Settings struct {
	GitHub   GitHubSettings   `yaml:"github"`
	Slack    SlackSettings    `yaml:"slack"`
	Database DatabaseSettings `yaml:"database"`
	Sheet    SheetSettings    `yaml:"sheet"`
	Notice   NoticeSettings   `yaml:"notice"`
}

type GitHubSettings struct {
	Token       string `yaml:"token"`
	APIEndpoint string `yaml:"api_endpoint"` // GitHub Enterprise の場合のみ
}

type SlackSettings struct {
	Token       string `yaml:"token"`
	Username    string `yaml:"username"`
	IconEmoji   string `yaml:"icon_emoji"`
	TextSuffix  string `yaml:"text_suffix"`
	TextEmpty   string `yaml:"text_empty"`
	TextDefault string `yaml:"text_default"`
}

type DatabaseSettings struct {
	Path string `yaml:"path"`
}

// SheetSettings の Path が空でなければ DB ではなく YAML の設定シートを読む
type SheetSettings struct {
	Path string `yaml:"path"`
}

type NoticeSettings struct {
	Timezone       string `yaml:"timezone"`
	ProactiveLabel string `yaml:"proactive_label"`
	Holidays       string `yaml:"holidays"` // "jp" または ""（土日のみ）
	Schedule       string `yaml:"schedule"`
	Addr           string `yaml:"addr"`
}

func Default() Settings {
	return Settings{
		Slack: SlackSettings{
			Username:    "GitHub Issues Notice",
			IconEmoji:   ":octocat:",
			TextEmpty:   "Wow, We did it! :tada:",
			TextDefault: "Please check :muscle:",
		},
		Database: DatabaseSettings{Path: "github_issues_notice.db"},
		Notice: NoticeSettings{
			Timezone:       "Asia/Tokyo",
			ProactiveLabel: "proactive",
			Holidays:       "jp",
			Schedule:       "0 * * * *",
			Addr:           ":8080",
		},
	}
}

// Load は .env、設定ファイル、環境変数の順に読み込む
// path が空ならデフォルト値と環境変数だけを使う
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	}

	s.applyEnv()

	if _, err := s.Location(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) applyEnv() {
	overrides := map[string]*string{
		EnvGitHubToken:    &s.GitHub.Token,
		EnvGitHubEndpoint: &s.GitHub.APIEndpoint,
		EnvSlackToken:     &s.Slack.Token,
		EnvDatabasePath:   &s.Database.Path,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}
}

// Location は通知時刻と祝日判定に使うタイムゾーン
func (s *Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Notice.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s.Notice.Timezone, err)
	}
	return loc, nil
}
