package ui

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/labworks/tracker/internal/ctxkeys"
	"github.com/labworks/tracker/internal/model"
)

const timestampLayout = "02 Jan 2006 · 15:04"

var titleCase = cases.Title(language.English)

// NoteRenderer turns an activity note into HTML.
type NoteRenderer interface {
	HTML(note string) template.HTML
}

type DashboardData struct {
	AppName     string
	User        *model.User
	GoalCount   int
	MyGoals     []*model.GoalSummary
	AIAvailable bool
	Feed        []*model.FeedItem
	Notes       NoteRenderer
}

// RoleLabel formats a role for display, e.g. "mentor" becomes "Mentor".
func RoleLabel(role string) string {
	return titleCase.String(role)
}

// StatusBadgeClass returns the Tailwind classes for a goal status badge.
func StatusBadgeClass(status string) string {
	base := "inline-flex items-center rounded-full px-2 py-0.5 text-xs font-medium bg-slate-100 text-slate-700"
	switch status {
	case model.GoalStatusInProgress:
		return twmerge.Merge(base, "bg-blue-100 text-blue-800")
	case model.GoalStatusStuck:
		return twmerge.Merge(base, "bg-red-100 text-red-800")
	case model.GoalStatusWaitingForReview:
		return twmerge.Merge(base, "bg-amber-100 text-amber-800")
	case model.GoalStatusCompleted:
		return twmerge.Merge(base, "bg-green-100 text-green-800 font-semibold")
	default:
		return base
	}
}

// FormatTimestamp renders a time for the feed, or "" for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

// Dashboard is the signed-in landing page: a sidebar, the user's own goals and the team feed.
func Dashboard(d DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &printer{w: w}

		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		p.text(d.AppName)
		p.raw(`</title><script src="https://cdn.tailwindcss.com" nonce="`)
		p.text(templ.GetNonce(ctx))
		p.raw(`"></script></head>`)
		p.raw(`<body class="bg-slate-50 text-slate-900"><div class="flex min-h-screen">`)

		sidebar(p, d, ctxkeys.CSRFToken(ctx))

		p.raw(`<main class="flex-1 p-8">`)
		if d.User != nil {
			myGoals(p, d.MyGoals)
		}

		p.raw(`<h1 class="text-2xl font-bold mb-6">Team feed</h1>`)
		if len(d.Feed) == 0 {
			p.raw(`<p class="text-slate-500">No activity logged yet. Encourage your team to post updates!</p>`)
		}
		for _, item := range d.Feed {
			feedItem(p, d.Notes, item)
		}
		p.raw(`</main></div></body></html>`)

		return p.err
	})
}

func sidebar(p *printer, d DashboardData, csrfToken string) {
	p.raw(`<aside class="w-64 border-r bg-white p-6 space-y-4"><h2 class="text-lg font-semibold">Lab tracker</h2>`)
	if d.User == nil {
		p.raw(`<p class="text-sm text-slate-500">Sign in to see the dashboard.</p></aside>`)
		return
	}

	p.raw(`<div><p class="font-semibold">`)
	p.text(d.User.Name)
	p.raw(`</p><p class="text-sm text-slate-600">`)
	p.text(RoleLabel(d.User.Role))
	p.raw(`</p></div>`)

	p.raw(`<div><p class="text-xs uppercase text-slate-500">My goals</p><p class="text-3xl font-bold">`)
	p.text(strconv.Itoa(d.GoalCount))
	p.raw(`</p></div>`)

	p.raw(`<p class="text-xs text-slate-500">Only mentors can see private student entries.</p>`)
	if !d.AIAvailable {
		p.raw(`<p class="rounded bg-amber-50 p-2 text-xs text-amber-800">Add GROQ_API_KEY to enable AI polishing.</p>`)
	}
	p.raw(`<form method="post" action="/auth/logout"><input type="hidden" name="csrf_token" value="`)
	p.text(csrfToken)
	p.raw(`"><button class="text-sm underline">Log out</button></form></aside>`)
}

func myGoals(p *printer, goals []*model.GoalSummary) {
	p.raw(`<section class="mb-10"><h2 class="text-xl font-bold mb-4">My tracked goals</h2>`)
	if len(goals) == 0 {
		p.raw(`<p class="text-slate-500">No goals yet. Add one to start tracking.</p></section>`)
		return
	}

	p.raw(`<ul class="space-y-2">`)
	for _, g := range goals {
		p.raw(`<li class="flex items-center justify-between rounded-lg border bg-white p-3"><span><strong>`)
		p.text(g.Title)
		p.raw(`</strong> <span class="text-sm text-slate-500">(`)
		p.text(updatesLabel(g.UpdatesCount))
		p.raw(`)</span></span><span class="flex items-center gap-3 text-sm text-slate-600">`)
		if g.DueDate != nil {
			p.raw(`<span>Due `)
			p.text(g.DueDate.Format(time.DateOnly))
			p.raw(`</span>`)
		}
		p.text(titleCase.String(g.Visibility))
		p.raw(`<span class="`)
		p.text(StatusBadgeClass(g.Status))
		p.raw(`">`)
		p.text(g.Status)
		p.raw(`</span></span></li>`)
	}
	p.raw(`</ul></section>`)
}

func updatesLabel(n int) string {
	if n == 1 {
		return "1 update"
	}
	return strconv.Itoa(n) + " updates"
}

func feedItem(p *printer, notes NoteRenderer, item *model.FeedItem) {
	p.raw(`<article class="mb-4 rounded-lg border bg-white p-4"><header class="text-sm"><strong>`)
	p.text(item.UserName)
	p.raw(`</strong> `)
	p.text(item.UserRole)
	p.raw(` · `)
	p.text(FormatTimestamp(item.CreatedAt))
	p.raw(`<br>Goal: <em>`)
	p.text(item.GoalTitle)
	p.raw(`</em></header><div class="prose prose-sm mt-2">`)
	if notes != nil {
		p.raw(string(notes.HTML(item.EntryText)))
	} else {
		p.text(item.EntryText)
	}
	p.raw(`</div>`)

	if item.Progress != nil {
		p.raw(fmt.Sprintf(`<progress class="mt-2 w-full" max="100" value="%d">%d%%</progress>`, *item.Progress, *item.Progress))
	}
	if item.AIGenerated {
		p.raw(`<p class="mt-1 text-xs text-slate-500">AI-assisted note</p>`)
	}
	p.raw(`</article>`)
}

// printer writes HTML and remembers the first error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) text(s string) {
	p.raw(templ.EscapeString(s))
}
