package clients

import (
	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

const PasswordResetSubject = "パスワード再設定のご案内"

var passwordResetTemplate = pongo2.Must(pongo2.FromString(`<!DOCTYPE html>
<html>
  <body>
    <p>{{ username }} 様</p>
    <p>パスワード再設定のリクエストを受け付けました。</p>
    <p>以下のリンクから{{ expires_minutes }}分以内に新しいパスワードを設定してください。</p>
    <p><a href="{{ link }}">パスワードを再設定する</a></p>
    <p>このメールに心当たりがない場合は破棄してください。</p>
  </body>
</html>
`))

func RenderPasswordResetEmail(username string, link string, expiresMinutes int) (string, error) {
	body, err := passwordResetTemplate.Execute(pongo2.Context{
		"username":        username,
		"link":            link,
		"expires_minutes": expiresMinutes,
	})
	if err != nil {
		return "", errors.Wrap(err, "render password reset email")
	}
	return body, nil
}
