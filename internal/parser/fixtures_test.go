package parser

import (
	"os"
	"strings"
	"testing"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

// handoutPage renders a handout-detail page the way the portal lays it out.
type handoutPage struct {
	unit, unitNum, period     string
	lessonType, thema, course string
	teachers                  string
	releaseStart, releaseEnd  string
	name, comments            string
	url, fileName             string
	linkBeforeName            bool
}

func defaultHandoutPage() handoutPage {
	return handoutPage{
		unit:         "ユニットA",
		unitNum:      "2",
		period:       "5",
		lessonType:   "講義",
		thema:        "テーマB",
		course:       "C学",
		teachers:     "教員D",
		releaseStart: "2000/01/01 03:34",
		releaseEnd:   "2001/12/23 19:03",
		name:         "教材E",
		comments:     "説明F",
		url:          "./Download.php?year=2000&kn=2000M0000000&kg=50&kz=1",
		fileName:     "レジュメ６.pdf",
	}
}

func (p handoutPage) String() string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"Shift_JIS\"?>\n<html><head><title>教材</title></head><body>\n")
	b.WriteString("<div class=\"title\">■教材情報</div>\n<div class=\"contents\">\n")
	b.WriteString("●学部・学年<br />医学部2年<br />\n")
	b.WriteString("●ユニット<br />" + p.unit + "<br />第" + p.unitNum + "回<br />01月01日（土）" + p.period + "限<br />\n")
	b.WriteString("●区分<br />" + p.lessonType + "<br />\n")
	b.WriteString("●講義・実習内容<br />" + p.thema + "<br />\n")
	b.WriteString("●コアカリキュラム<br /><br />\n")
	b.WriteString("●講座<br />" + p.course + "<br />\n")
	b.WriteString("●担当教員<br />" + p.teachers + "<br />\n")
	b.WriteString("●公開開始日<br />" + p.releaseStart + "<br />\n")
	b.WriteString("●公開終了日<br />" + p.releaseEnd + "<br />\n")

	link := "●本文　<a href=\"" + p.url + "\">" + p.fileName + "</a><br />\n"
	if p.linkBeforeName {
		b.WriteString(link)
	}
	b.WriteString("●教材・資料名<br />" + p.name + "<br />\n")
	b.WriteString("●教材・資料の説明<br />" + p.comments + "<br />\n")
	if !p.linkBeforeName {
		b.WriteString(link)
	}
	b.WriteString("</div>\n</body></html>\n")
	return b.String()
}
