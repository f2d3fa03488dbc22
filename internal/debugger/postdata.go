// postdata.go — Request body recovery from Network events.
package debugger

import (
	"encoding/base64"
	"strings"

	"github.com/chromedp/cdproto/network"
)

// RequestPostData joins the base64 post data entries of req.
// ok is false when the request carries no post data. Entries that are not
// valid base64 are kept as sent.
func RequestPostData(req *network.Request) ([]byte, bool) {
	if req == nil || len(req.PostDataEntries) == 0 {
		return nil, false
	}
	var sb strings.Builder
	for _, entry := range req.PostDataEntries {
		if entry == nil {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(entry.Bytes)
		if err != nil {
			sb.WriteString(entry.Bytes)
			continue
		}
		sb.Write(decoded)
	}
	if sb.Len() == 0 {
		return nil, false
	}
	return []byte(sb.String()), true
}
