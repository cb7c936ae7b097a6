package tracking

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"
)

var redirectPage = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.Seconds}};url={{.Target}}">
<title>Redirecting</title>
</head>
<body>
<p>Taking you to the scheduling page in {{.Seconds}} seconds.</p>
<p><a href="{{.Target}}">Continue now</a></p>
</body>
</html>
`))

// RefreshHeader is the value of the Refresh header redirecting to target
// after delay, rounded up to whole seconds.
func RefreshHeader(target string, delay time.Duration) string {
	return fmt.Sprintf("%d; url=%s", seconds(delay), target)
}

// RedirectPage renders the interstitial shown while the Refresh timer runs.
func RedirectPage(target string, delay time.Duration) ([]byte, error) {
	var buf bytes.Buffer
	err := redirectPage.Execute(&buf, struct {
		Seconds int
		Target  string
	}{seconds(delay), target})
	if err != nil {
		return nil, fmt.Errorf("render redirect page: %w", err)
	}
	return buf.Bytes(), nil
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
