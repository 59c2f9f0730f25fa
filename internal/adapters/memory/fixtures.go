package memory

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/csg33k/billed/internal/domain"
	"github.com/csg33k/billed/internal/ports"
)

// FixtureEmail owns every fixture bill.
const FixtureEmail = "a@a"

// Fixtures returns the four demo bills, in storage order. Their FileURL is
// empty until StoreReceipts saves a receipt for them.
func Fixtures() []domain.Bill {
	return []domain.Bill{
		{
			ID:           "47qAXb6fIm2zOKkLzMro",
			Email:        FixtureEmail,
			Type:         "Hôtel et logement",
			Name:         "encore",
			Date:         "2004-04-04",
			Amount:       400,
			VAT:          "80",
			Pct:          20,
			Status:       domain.StatusPending,
			Commentary:   "séminaire billed",
			CommentAdmin: "ok",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
		},
		{
			ID:           "BeKy5Mo4jkmdfPGYpTxZ",
			Email:        FixtureEmail,
			Type:         "Transports",
			Name:         "test1",
			Date:         "2001-01-01",
			Amount:       100,
			Pct:          20,
			Status:       domain.StatusRefused,
			Commentary:   "plop",
			CommentAdmin: "en fait non",
			FileName:     "1592770761.jpeg",
		},
		{
			ID:           "UIUZtnPQvnbFnB0ozvJh",
			Email:        FixtureEmail,
			Type:         "Services en ligne",
			Name:         "test3",
			Date:         "2003-03-03",
			Amount:       300,
			VAT:          "60",
			Pct:          20,
			Status:       domain.StatusAccepted,
			CommentAdmin: "bon bah d'accord",
			FileName:     "facture-client-php-exportee-dans-document-pdf-enregistre-sur-disque-dur.png",
		},
		{
			ID:           "qcCK3SzECmaZAGRrHjaC",
			Email:        FixtureEmail,
			Type:         "Restaurants et bars",
			Name:         "test2",
			Date:         "2002-02-02",
			Amount:       200,
			VAT:          "40",
			Pct:          20,
			Status:       domain.StatusRefused,
			Commentary:   "test2",
			CommentAdmin: "pas la bonne facture",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
		},
	}
}

// StoreReceipts saves a placeholder receipt for each bill in rs and returns
// copies pointing at them. On failure the receipts already saved are removed.
func StoreReceipts(ctx context.Context, rs ports.ReceiptStorage, bills []domain.Bill) ([]domain.Bill, error) {
	out := make([]domain.Bill, len(bills))
	var saved []string
	for i, b := range bills {
		rec, err := rs.Save(ctx, "placeholder.png", PlaceholderReceipt())
		if err != nil {
			for _, key := range saved {
				rs.Delete(context.WithoutCancel(ctx), key)
			}
			return nil, fmt.Errorf("store receipt of %s: %w", b.ID, err)
		}
		saved = append(saved, rec.Key)
		b.FileURL = rec.URL
		out[i] = b
	}
	return out, nil
}

// PlaceholderReceipt returns a small PNG standing in for a scanned receipt.
func PlaceholderReceipt() io.Reader {
	const w, h = 120, 160
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := uint8(0xff)
			// ruled lines of a till receipt
			if y > 20 && y%14 == 0 && x > 10 && x < w-10 {
				c = 0xb0
			}
			img.SetGray(x, y, color.Gray{Y: c})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return &buf
}
