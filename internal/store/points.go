package store

import (
	"fmt"

	"github.com/golang/geo/s2"
	"gorm.io/gorm/clause"
)

// pointCellLevel is the s2 cell level geolocated records are bucketed at
// for the map scatter layer. Level 6 cells are roughly country-region
// sized, coarse enough to keep the payload small at world zoom.
const pointCellLevel = 6

// PointCount is one bucketed map point with its summed message count.
type PointCount struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"count"`
}

type pointRow struct {
	Latitude  float64 `gorm:"column:latitude"`
	Longitude float64 `gorm:"column:longitude"`
	Count     int64   `gorm:"column:count"`
}

// MessageCountPerPoint buckets the geolocated records matching pred into
// s2 cells and sums their message counts per cell. Records without
// coordinates are skipped.
func (s *Store) MessageCountPerPoint(pred clause.Expression) ([]PointCount, error) {
	var rows []pointRow
	err := applyPredicate(s.recordQuery(), pred).
		Where("records.latitude IS NOT NULL AND records.longitude IS NOT NULL").
		Select("records.latitude AS latitude, records.longitude AS longitude, records.count AS count").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying map points: %w", err)
	}
	return bucketPoints(rows), nil
}

type pointBucket struct {
	count    int64
	sources  int
	origCell s2.CellID
}

func bucketPoints(rows []pointRow) []PointCount {
	buckets := make(map[s2.CellID]*pointBucket)
	for _, row := range rows {
		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(row.Latitude, row.Longitude))
		parent := cell.Parent(pointCellLevel)
		b, ok := buckets[parent]
		if !ok {
			b = &pointBucket{}
			buckets[parent] = b
		}
		b.count += row.Count
		b.sources++
		b.origCell = cell
	}

	out := make([]PointCount, 0, len(buckets))
	for parent, b := range buckets {
		// A single-source bucket keeps its exact location.
		ll := parent.LatLng()
		if b.sources == 1 {
			ll = b.origCell.LatLng()
		}
		out = append(out, PointCount{
			Latitude:  ll.Lat.Degrees(),
			Longitude: ll.Lng.Degrees(),
			Count:     b.count,
		})
	}
	return out
}
