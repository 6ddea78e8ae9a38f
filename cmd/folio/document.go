package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/folio/app"
	"github.com/lixenwraith/folio/cursor"
	"github.com/lixenwraith/folio/motion"
	"github.com/lixenwraith/folio/render"
	"github.com/lixenwraith/folio/scroll"
	"github.com/lixenwraith/folio/terminal"
)

const (
	margin    = 4
	navRow    = 1
	codeName  = "code"
	imageRows = 8
)

type blockKind uint8

const (
	blockHeading blockKind = iota
	blockText
	blockLink
	blockImage
	blockCode
)

// block is one laid-out piece of the sample document, in document cells
type block struct {
	kind   blockKind
	id     string
	x, y   int
	w, h   int
	lines  []string
	target string // anchor a link navigates to
	par    *motion.Parallax
}

type section struct {
	anchor string
	title  string
	body   []string
	links  []string
	image  bool
	code   []string
}

var sections = []section{
	{
		anchor: "intro",
		title:  "FOLIO",
		body: []string{
			"A terminal portfolio with a smoothed pointer.",
			"Hover the links, headings and images below.",
		},
		image: true,
	},
	{
		anchor: "work",
		title:  "Selected work",
		body: []string{
			"Three projects, each a link. The cursor grows over",
			"anything clickable and reads over headings.",
		},
		links: []string{"tideline", "cartograph", "lantern"},
		code: []string{
			"func (t *Tracker) tick(dt time.Duration) {",
			"	if !t.pending {",
			"		return",
			"	}",
			"	t.x = t.springX.Step(t.rawX, dt)",
			"	t.y = t.springY.Step(t.rawY, dt)",
			"}",
			"",
			"// The wheel scrolls this block natively",
			"// while the pointer is inside it",
			"for _, r := range regions {",
			"	if r.Excluded {",
			"		native[r.Name] = NewNativeScroll(r.Content, r.Height)",
			"	}",
			"}",
			"",
			"// end of listing",
		},
	},
	{
		anchor: "about",
		title:  "About",
		body: []string{
			"Built for terminals that report mouse motion.",
			"Without one the cursor stays hidden and the page",
			"scrolls with the keyboard: j k space g G.",
		},
		image: true,
	},
	{
		anchor: "contact",
		title:  "Contact",
		body: []string{
			"Press 1 to 4 to jump between sections.",
			"m toggles pointer policy, s toggles sound, q quits.",
		},
		links: []string{"mail", "intro"},
	},
}

// document is the sample page the pointer subsystem runs over
type document struct {
	layout   *app.StaticLayout
	blocks   []block
	anchors  []string
	parallax []*motion.Parallax
}

func newDocument(viewport int) *document {
	d := &document{layout: app.NewStaticLayout(viewport, 0)}
	d.build(viewport)
	return d
}

// build lays out sections top to bottom; each section fills at least a viewport
// Image parallax values are reused across rebuilds so listeners keep them
func (d *document) build(viewport int) {
	var (
		blocks  []block
		names   []string
		anchors = make(map[string]int)
		regions []scroll.Region
		images  int
	)

	y := navRow + 2
	for i, name := range sections {
		blocks = append(blocks, block{
			kind: blockLink, id: "nav-" + name.anchor,
			x: margin + i*12, y: navRow, w: runewidth.StringWidth(name.anchor), h: 1,
			lines: []string{name.anchor}, target: name.anchor,
		})
	}

	for _, s := range sections {
		top := y
		names = append(names, s.anchor)
		anchors[s.anchor] = top

		y += 2
		blocks = append(blocks, block{
			kind: blockHeading, id: "heading-" + s.anchor,
			x: margin, y: y, w: widest([]string{s.title}) + 2, h: 1,
			lines: []string{s.title},
		})
		y += 2

		blocks = append(blocks, block{
			kind: blockText, id: "body-" + s.anchor,
			x: margin, y: y, w: widest(s.body), h: len(s.body),
			lines: s.body,
		})
		y += len(s.body) + 1

		for _, l := range s.links {
			target := ""
			for _, other := range sections {
				if other.anchor == l {
					target = l
				}
			}
			blocks = append(blocks, block{
				kind: blockLink, id: "link-" + l,
				x: margin + 2, y: y, w: runewidth.StringWidth(l) + 2, h: 1,
				lines: []string{"> " + l}, target: target,
			})
			y += 2
		}

		if s.image {
			var p *motion.Parallax
			if images < len(d.parallax) {
				p = d.parallax[images]
				p.Top = float64(y)
			} else {
				p = motion.NewParallax(float64(y), imageRows)
				d.parallax = append(d.parallax, p)
			}
			images++
			blocks = append(blocks, block{
				kind: blockImage, id: "image-" + s.anchor,
				x: margin, y: y, w: 32, h: imageRows, par: p,
			})
			y += imageRows + 2
		}

		if len(s.code) > 0 {
			rows := 8
			blocks = append(blocks, block{
				kind: blockCode, id: codeName,
				x: margin, y: y, w: 56, h: rows,
				lines: s.code,
			})
			regions = append(regions, scroll.Region{
				Name: codeName, Left: margin, Top: y, Width: 56, Height: rows,
				Classes: []string{"code", scroll.PreventMarker},
				Content: len(s.code),
			})
			y += rows + 2
		}

		y = max(y, top+viewport)
	}

	d.blocks, d.anchors = blocks, names
	d.layout.Replace(viewport, y, anchors, regions)
}

// elements returns the interactive areas with their cursor modes
func (d *document) elements() []cursor.Element {
	var out []cursor.Element
	for _, b := range d.blocks {
		el := cursor.Element{ID: b.id, X: b.x, Y: b.y, Width: b.w, Height: b.h}
		switch b.kind {
		case blockLink:
			el.Mode = cursor.ModeButton
		case blockHeading:
			el.Mode, el.Label = cursor.ModeText, "read"
		case blockImage:
			el.Mode = cursor.ModeCrosshair
		default:
			continue
		}
		out = append(out, el)
	}
	return out
}

// target returns the anchor an element navigates to
func (d *document) target(id string) (string, bool) {
	for _, b := range d.blocks {
		if b.id == id && b.target != "" {
			return b.target, true
		}
	}
	return "", false
}

// anchor returns the n-th section anchor, 1-based
func (d *document) anchor(n int) (string, bool) {
	if n < 1 || n > len(d.anchors) {
		return "", false
	}
	return d.anchors[n-1], true
}

// draw paints the visible part of the document starting at document row
func (d *document) draw(c render.Canvas, row int, sc *scroll.Controller, mode terminal.ColorMode) {
	paper := paperStyle(mode)
	w, h := c.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetContent(x, y, ' ', nil, paper)
		}
	}

	for _, b := range d.blocks {
		top := b.y - row
		if top+b.h+imageRows < 0 || top-imageRows >= h {
			continue
		}
		switch b.kind {
		case blockHeading:
			putString(c, b.x, top, b.lines[0], paper.Bold(true))
		case blockText:
			for i, l := range b.lines {
				putString(c, b.x, top+i, l, paper)
			}
		case blockLink:
			putString(c, b.x, top, b.lines[0], paper.Foreground(mode.Color(31, 122, 140)).Underline(true))
		case blockImage:
			d.drawImage(c, b, top+b.par.Shift(), mode)
		case blockCode:
			offset := 0
			if ns, ok := sc.Native(codeName); ok {
				offset = ns.Offset
			}
			d.drawCode(c, b, top, offset, mode)
		}
	}

	status := fmt.Sprintf(" %d/%d ", row, max(0, d.layout.ContentHeight()-d.layout.ViewportHeight()))
	putString(c, w-runewidth.StringWidth(status)-1, h-1, status, paper.Dim(true))
}

func (d *document) drawImage(c render.Canvas, b block, top int, mode terminal.ColorMode) {
	shade := tcell.StyleDefault.Background(mode.Color(197, 198, 199)).Foreground(mode.Color(69, 162, 158))
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			r := '░'
			if (x+y)%4 == 0 {
				r = '▒'
			}
			setCell(c, b.x+x, top+y, r, shade)
		}
	}
}

func (d *document) drawCode(c render.Canvas, b block, top, offset int, mode terminal.ColorMode) {
	style := tcell.StyleDefault.Background(mode.Color(31, 40, 51)).Foreground(mode.Color(197, 198, 199))
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			setCell(c, b.x+x, top+y, ' ', style)
		}
		if i := offset + y; i < len(b.lines) {
			putString(c, b.x+1, top+y, runewidth.Truncate(b.lines[i], b.w-2, ""), style)
		}
	}
}

func paperStyle(mode terminal.ColorMode) tcell.Style {
	r, g, b := render.Paper.RGB255()
	return tcell.StyleDefault.Background(mode.Color(r, g, b)).Foreground(mode.Color(17, 17, 17))
}

func setCell(c render.Canvas, x, y int, r rune, style tcell.Style) {
	w, h := c.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	c.SetContent(x, y, r, nil, style)
}

func putString(c render.Canvas, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if r == '\t' {
			x += 2
			continue
		}
		setCell(c, x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}

func widest(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, runewidth.StringWidth(l))
	}
	return w
}
