package console

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mdp/qrterminal/v3"

	"pkt.systems/socfolio/reveal"
)

const (
	minWidth  = 20
	minHeight = 6
	indent    = "  "
)

func (c *Console) render() error {
	lines, row, col := c.frame()
	return c.screen.Render(lines, row, col)
}

// frame composes the full screen. The returned cursor row is zero when the
// cursor should be hidden.
func (c *Console) frame() ([]string, int, int) {
	width, height := max(c.width, minWidth), max(c.height, minHeight)
	bodyHeight := height - 2
	var (
		body     []string
		row, col int
	)
	switch c.view {
	case viewBoot:
		body = c.bootBody(width, bodyHeight)
	case viewDossier:
		body = c.dossierBody(width, bodyHeight)
	case viewTerminal:
		body, row, col = c.terminalBody(width, bodyHeight)
		if row > 0 {
			row++
		}
	}
	lines := make([]string, 0, height)
	lines = append(lines, c.statusBar(width))
	for i := range bodyHeight {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		lines = append(lines, pad(line, width))
	}
	lines = append(lines, c.hintBar(width))
	return lines, row, col
}

func (c *Console) statusBar(width int) string {
	left := " " + c.status.Display()
	right := ""
	if c.cfg.Version != "" {
		right = "BUILD " + c.cfg.Version + " "
	}
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		right = ""
		gap = max(width-runewidth.StringWidth(left), 0)
	}
	bar := left + strings.Repeat(" ", gap) + right
	return bg(c.theme.BarBG) + fg(c.theme.BarFG) + ansiBold + pad(bar, width) + ansiReset
}

func (c *Console) hintBar(width int) string {
	text := c.notice
	if text == "" {
		switch c.view {
		case viewBoot:
			text = "press any key to skip"
		case viewDossier:
			text = "tab/shift-tab focus · i intel · c contact · t terminal · q quit"
		case viewTerminal:
			text = "enter run · ↑/↓ history · pgup/pgdn scroll · esc dossier · ctrl-d close"
			if v := c.scroll.Window(c.transcriptRows()); !v.AtBottom {
				text = fmt.Sprintf("[scrollback %d/%d] ", v.End, v.TotalLines) + text
			}
		}
	}
	return fg(c.theme.Muted) + ansiDim + pad(" "+text, width) + ansiReset
}

func (c *Console) bootBody(width, height int) []string {
	if c.boot == nil {
		return nil
	}
	frame := c.boot.Frame()
	barWidth := max(min(width-12, 48), 4)
	block := []string{
		styled(fg(c.theme.Accent)+ansiBold, "[ SYSTEM BOOT ]"),
		"",
		styled(fg(c.theme.Text), sanitize(frame.Status)),
		"",
		styled(fg(c.theme.Progress), reveal.ProgressBar(frame.Percent, barWidth)) +
			styled(fg(c.theme.Muted), fmt.Sprintf(" %3d%%", frame.Percent)),
	}
	top := max((height-len(block))/2, 0)
	left := strings.Repeat(" ", max((width-barWidth-5)/2, 0))
	body := make([]string, top, top+len(block))
	for _, line := range block {
		body = append(body, left+line)
	}
	return body
}

// dossierSections renders the dossier and returns the first row of every
// focusable section.
func (c *Console) dossierSections(width int) ([]string, []int) {
	content := c.deps.Content
	inner := max(width-len(indent)*2, 8)
	var (
		lines  []string
		starts []int
	)
	header := func(i int) {
		starts = append(starts, len(lines))
		marker, style := "[ ]", fg(c.theme.Muted)
		if i == c.focus {
			marker, style = "[>]", fg(c.theme.Focus)+ansiBold
		}
		lines = append(lines, " "+styled(style, marker+" "+sanitize(c.headers[i].Display())))
	}
	text := func(style, s string) {
		for _, l := range wrapBlock(s, inner) {
			lines = append(lines, indent+" "+styled(style, l))
		}
	}

	header(0)
	p := content.Profile
	text(fg(c.theme.Text)+ansiBold, p.Name)
	text(fg(c.theme.Accent), strings.Join(nonEmpty(p.Role, p.Region), " // "))
	if p.Handle != "" {
		text(fg(c.theme.Muted), "handle: "+p.Handle)
	}
	text(fg(c.theme.Accent), "● "+p.Status)
	if p.Tagline != "" {
		text(fg(c.theme.Muted)+ansiDim, p.Tagline)
	}
	bio := c.bio.Display()
	if !c.bio.Complete() {
		bio += "█"
	}
	lines = append(lines, "")
	text(fg(c.theme.Text), bio)
	lines = append(lines, "")

	header(1)
	labelWidth := 0
	for _, row := range content.Ledger {
		labelWidth = max(labelWidth, runewidth.StringWidth(row.Label))
	}
	for _, row := range content.Ledger {
		label := runewidth.FillRight(sanitize(row.Label), labelWidth)
		lines = append(lines, indent+" "+styled(fg(c.theme.Muted), label)+"  "+styled(fg(c.theme.Text), sanitize(row.Value)))
	}
	lines = append(lines, "")

	for i, prj := range content.Projects {
		header(i + 2)
		text(fg(c.theme.Faint), "#"+prj.ID)
		text(fg(c.theme.Text), prj.Desc)
		if len(prj.Tools) > 0 {
			text(fg(c.theme.Accent), strings.Join(prj.Tools, " · "))
		}
		lines = append(lines, "")
	}
	if content.Footer != "" {
		text(fg(c.theme.Faint)+ansiDim, content.Footer)
	}
	return lines, starts
}

func (c *Console) dossierBody(width, height int) []string {
	switch c.overlay {
	case overlayIntel:
		return c.intelBody(width)
	case overlayContact:
		return c.contactBody(width)
	}
	lines, starts := c.dossierSections(width)
	if c.focus < len(starts) {
		start := starts[c.focus]
		end := len(lines)
		if c.focus+1 < len(starts) {
			end = starts[c.focus+1]
		}
		if start < c.top {
			c.top = start
		}
		if end > c.top+height {
			c.top = max(min(start, end-height), 0)
		}
	}
	c.top = max(min(c.top, len(lines)-height), 0)
	return lines[c.top:min(c.top+height, len(lines))]
}

func (c *Console) intelBody(width int) []string {
	content := c.deps.Content
	tools := content.Tools()
	title := "INTEL // ALL ASSETS"
	if idx := c.focusedProject(); idx >= 0 {
		tools = content.Projects[idx].Tools
		title = "INTEL // " + content.Projects[idx].ID
	}
	inner := max(width-len(indent)*2, 8)
	lines := []string{" " + styled(fg(c.theme.Focus)+ansiBold, title), ""}
	for _, tool := range tools {
		lines = append(lines, indent+styled(fg(c.theme.Accent)+ansiBold, "> "+sanitize(tool)))
		for _, l := range wrap(content.Brief(tool), inner-2) {
			lines = append(lines, indent+"  "+styled(fg(c.theme.Text), l))
		}
		lines = append(lines, "")
	}
	if len(tools) == 0 {
		lines = append(lines, indent+styled(fg(c.theme.Muted), content.Intel.Fallback))
	}
	return lines
}

func (c *Console) contactBody(width int) []string {
	contact := c.deps.Content.Contact
	lines := []string{" " + styled(fg(c.theme.Focus)+ansiBold, "SECURE CHANNEL"), ""}
	row := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, indent+styled(fg(c.theme.Muted), runewidth.FillRight(label, 10))+styled(fg(c.theme.Text), sanitize(value)))
	}
	row("email", contact.Email)
	row("github", contact.GitHub)
	row("linkedin", contact.LinkedIn)
	lines = append(lines, "")
	for _, l := range c.contactQR() {
		if runewidth.StringWidth(l)+len(indent) > width {
			break
		}
		lines = append(lines, indent+l)
	}
	return lines
}

// contactQR renders a mailto QR code once and caches it.
func (c *Console) contactQR() []string {
	if c.qr != nil || c.deps.Content.Contact.Email == "" {
		return c.qr
	}
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock("mailto:"+c.deps.Content.Contact.Email, qrterminal.L, &buf)
	c.qr = strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	return c.qr
}

// transcriptRows is the number of rows available to the transcript above
// the input line.
func (c *Console) transcriptRows() int {
	return max(max(c.height, minHeight)-3, 1)
}

func (c *Console) terminalBody(width, height int) ([]string, int, int) {
	var rows []string
	for _, line := range c.session.Transcript() {
		style := c.theme.lineStyle(line.Kind)
		for _, l := range wrapPreformatted(line.Text, width-1) {
			rows = append(rows, " "+styled(style, l))
		}
	}
	limit := max(height-1, 1)
	c.scroll.Sync(len(rows))
	view := c.scroll.Window(limit)
	body := append([]string(nil), rows[view.Start:view.End]...)

	input, col := c.inputLine(width)
	body = append(body, input)
	return body, len(body), col
}

// inputLine renders the prompt and editor, scrolling the input
// horizontally so the cursor stays visible.
func (c *Console) inputLine(width int) (string, int) {
	prompt := " " + sanitize(c.session.Prompt())
	promptWidth := runewidth.StringWidth(prompt)
	runes := c.editor.buf
	cursor := c.editor.Cursor()
	start := 0
	avail := max(width-promptWidth-1, 1)
	for start < cursor && runewidth.StringWidth(string(runes[start:cursor])) > avail {
		start++
	}
	visible := clip(string(runes[start:]), width-promptWidth)
	col := promptWidth + runewidth.StringWidth(string(runes[start:cursor])) + 1
	return styled(fg(c.theme.Prompt)+ansiBold, prompt) + styled(fg(c.theme.Echo), visible), min(col, width)
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
