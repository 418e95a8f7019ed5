package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/wonny/ratioservice/internal/contracts"
)

const corpCodeFile = "CORPCODE.xml"

type corpCodeDocument struct {
	XMLName xml.Name        `xml:"result"`
	List    []corpCodeEntry `xml:"list"`
}

type corpCodeEntry struct {
	CorpCode   string `xml:"corp_code"`
	CorpName   string `xml:"corp_name"`
	StockCode  string `xml:"stock_code"`
	ModifyDate string `xml:"modify_date"`
}

// FetchCorpCodes downloads corpCode.xml (zip) and returns the listed companies
func (c *Client) FetchCorpCodes(ctx context.Context) ([]contracts.Company, error) {
	body, err := c.http.GetBytes(ctx, c.endpoint("corpCode.xml", nil))
	if err != nil {
		return nil, fmt.Errorf("fetch corp codes: %w", err)
	}

	companies, err := ParseCorpCodes(body)
	if err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(companies)).Info("Fetched DART corp codes")
	return companies, nil
}

// ParseCorpCodes reads the zipped CORPCODE.xml and keeps companies with a stock code
func ParseCorpCodes(zipped []byte) ([]contracts.Company, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipped), int64(len(zipped)))
	if err != nil {
		// 키 오류 등은 zip 대신 JSON/XML 상태 응답이 옴
		return nil, fmt.Errorf("corp code archive: %w", err)
	}

	var file *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, corpCodeFile) {
			file = f
			break
		}
	}
	if file == nil {
		return nil, fmt.Errorf("corp code archive: %s not found", corpCodeFile)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", corpCodeFile, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", corpCodeFile, err)
	}

	var doc corpCodeDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", corpCodeFile, err)
	}

	companies := make([]contracts.Company, 0, len(doc.List))
	for _, e := range doc.List {
		stock := strings.TrimSpace(e.StockCode)
		if stock == "" {
			continue
		}
		companies = append(companies, contracts.Company{
			CorpCode:  strings.TrimSpace(e.CorpCode),
			CorpName:  strings.TrimSpace(e.CorpName),
			StockCode: stock,
		})
	}
	return companies, nil
}

// FindCompany picks the best match for a name.
// Listed companies with a 6-digit stock code win over other listings.
func FindCompany(companies []contracts.Company, name string) (contracts.Company, bool) {
	var best contracts.Company
	bestScore := -1
	for _, c := range companies {
		if c.CorpName != name {
			continue
		}
		score := 0
		if c.StockCode != "" {
			score += 100
		}
		if c.Listed() {
			score += 50
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= 0
}
