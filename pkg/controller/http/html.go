package http

import (
	"context"
	"html/template"
	"net/http"

	"github.com/slackline-io/slackline/pkg/utils/errutil"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 4rem auto; max-width: 32rem; text-align: center; }
h1 { font-size: 1.5rem; }
p { color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type pageData struct {
	Title   string
	Message string
}

func renderPage(ctx context.Context, w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, pageData{Title: title, Message: message}); err != nil {
		errutil.Handle(ctx, err, "failed to render page")
	}
}
