package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/paulmach/orb"
	"github.com/tingold/lascrs"
	"github.com/tingold/lascrs/footprint"
)

// WKT as found in the projection records of a German state survey.
const surveyWKT = `COMPOUNDCRS["ETRS89 / UTM zone 32N + DHHN2016 height",
  PROJCRS["ETRS89 / UTM zone 32N",BASEGEOGCRS["ETRS89",DATUM["European Terrestrial Reference System 1989",ELLIPSOID["GRS 1980",6378137,298.257222101]]],CONVERSION["UTM zone 32N",METHOD["Transverse Mercator",ID["EPSG",9807]]],CS[Cartesian,2],ID["EPSG",25832]],
  VERTCRS["DHHN2016 height",VDATUM["Deutsches Haupthoehennetz 2016"],CS[vertical,1],ID["EPSG",5783]]]`

type survey struct {
	Name   string
	MinX   float64
	MinY   float64
	Points uint64
}

var tiles = []survey{
	{"32_480_5650.laz", 480000, 5650000, 12345678},
	{"32_481_5650.laz", 481000, 5650000, 11012345},
	{"32_482_5650.laz", 482000, 5650000, 9876543},
	{"32_480_5651.laz", 480000, 5651000, 13500120},
	{"32_481_5651.laz", 481000, 5651000, 12999001},
	{"32_482_5651.laz", 482000, 5651000, 8765432},
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Resolve the CRS the way a reader would from the file's VLRs.
	h := lascrs.FromVLRs([]lascrs.VLR{
		{UserID: lascrs.ProjectionUserID, RecordID: lascrs.RecordWKT, Data: []byte(surveyWKT)},
	})
	flag := true
	h.WKTFlag = &flag

	crs, err := lascrs.Parse(h, &lascrs.Options{Logger: logger})
	if err != nil {
		logger.Error("failed to resolve CRS", "err", err)
		os.Exit(1)
	}
	if err := lascrs.CheckRegistered(crs, lascrs.WGS84Registry()); err != nil {
		logger.Warn("CRS not in local registry", "crs", crs, "err", err)
	}
	logger.Info("resolved CRS", "crs", crs)

	fps := make([]footprint.Tile, 0, len(tiles))
	for _, s := range tiles {
		fps = append(fps, footprint.Tile{
			Name:   s.Name,
			Bounds: orb.Bound{Min: orb.Point{s.MinX, s.MinY}, Max: orb.Point{s.MinX + 1000, s.MinY + 1000}},
			CRS:    crs,
			Points: s.Points,
		})
	}

	var buf bytes.Buffer
	opts := &footprint.Options{
		Name:         "survey_tiles",
		Description:  "Lidar tile footprints",
		IncludeIndex: true,
	}
	if err := footprint.Write(&buf, fps, opts); err != nil {
		logger.Error("failed to write footprints", "err", err)
		os.Exit(1)
	}
	fgbData := buf.Bytes()

	geoJSONData, err := json.Marshal(footprint.FeatureCollection(fps))
	if err != nil {
		logger.Error("failed to encode GeoJSON", "err", err)
		os.Exit(1)
	}

	http.HandleFunc("/footprints.fgb", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(fgbData)
	})
	http.HandleFunc("/footprints.geojson", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		_, _ = w.Write(geoJSONData)
	})

	logger.Info("server starting", "addr", "http://localhost:8080")
	if err := http.ListenAndServe(":8080", nil); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
