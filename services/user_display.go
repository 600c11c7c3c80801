package services

import "github.com/google/go-github/v71/github"

// 削除済みユーザーは GitHub 上で ghost と表示される
const ghostLogin = "ghost"

// UserLogin は GitHub User のログイン名を返す
func UserLogin(user *github.User) string {
	if user == nil || user.GetLogin() == "" {
		return ghostLogin
	}
	return user.GetLogin()
}

// UserLogins は複数ユーザーのログイン名を返す
func UserLogins(users []*github.User) []string {
	logins := make([]string, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		logins = append(logins, UserLogin(u))
	}
	return logins
}
