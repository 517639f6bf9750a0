package handlers

import (
	"net/http"

	"github.com/andrewpaige1/formbook-api/utils"
	"golang.org/x/sync/errgroup"
)

type HomeResponse struct {
	Latest  []TemplateSummary
	Popular []TemplateSummary
	Tags    []TagCount
}

// GET /api/home
func (db *DBHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	var resp HomeResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() (err error) {
		resp.Latest, err = latestTemplates(ctx, db.DB)
		return err
	})
	g.Go(func() (err error) {
		resp.Popular, err = popularTemplates(ctx, db.DB)
		return err
	})
	g.Go(func() (err error) {
		resp.Tags, err = tagCloud(ctx, db.DB)
		return err
	})

	if err := g.Wait(); err != nil {
		fail(w, "GetHome", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
