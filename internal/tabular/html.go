package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FromHTMLTable parses the first matching HTML <table> into a Table.
// 네트워크 접근 없음 — 호출자가 이미 확보한 문서를 파싱만 한다.
// selector가 비어 있으면 문서의 첫 번째 table을 사용.
// 헤더는 thead th 우선, 없으면 첫 행의 th/td를 컬럼명으로 사용한다.
func FromHTMLTable(r io.Reader, selector string) (Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("parse HTML failed: %w", err)
	}

	if selector == "" {
		selector = "table"
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return Table{}, fmt.Errorf("no table matched selector %q", selector)
	}

	rows := sel.Find("tr")
	if rows.Length() == 0 {
		return Table{}, fmt.Errorf("table has no rows")
	}

	// 첫 tr이 헤더 (thead 유무와 무관하게 문서 순서상 첫 행)
	var columns []string
	rows.First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		columns = append(columns, strings.TrimSpace(cell.Text()))
	})
	if len(columns) == 0 {
		return Table{}, fmt.Errorf("table has no header cells")
	}

	table := New(columns...)

	rows.Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // 헤더 행
		}
		row := make(Row, len(columns))
		tr.Find("th, td").Each(func(j int, td *goquery.Selection) {
			if j < len(columns) {
				row[columns[j]] = strings.TrimSpace(td.Text())
			}
		})
		if len(row) > 0 {
			table.Append(row)
		}
	})

	return table, nil
}
