package model

// TrackRecord holds the derived and user-editable metadata for one track
// file. The JSON tags are the sidecar record keys; a record written by an
// earlier version of the sidecar format reads back unchanged.
type TrackRecord struct {
	Title    string  `json:"title"`
	Date     string  `json:"date"` // YYYY-MM-D, derived from the source file's mtime
	Time     string  `json:"time"` // placeholder, not derived from real data
	Length   float64 `json:"length"`
	BPM      int     `json:"bpm"`
	UserBPM  int     `json:"userBPM"`
	Location string  `json:"location"`
	Stars    int     `json:"stars"`
	Playing  int     `json:"playing"`
	Disk     string  `json:"disk"` // placeholder, not derived from real data
}

// Clone returns a copy of the record.
func (r *TrackRecord) Clone() *TrackRecord {
	c := *r
	return &c
}

// ToMap returns the record as a key/value mapping using the sidecar keys.
func (r *TrackRecord) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":    r.Title,
		"date":     r.Date,
		"time":     r.Time,
		"length":   r.Length,
		"bpm":      r.BPM,
		"userBPM":  r.UserBPM,
		"location": r.Location,
		"stars":    r.Stars,
		"playing":  r.Playing,
		"disk":     r.Disk,
	}
}

// ToList returns the record's fields in their fixed wire order: title, date,
// time, length, bpm, userBPM, location, stars, playing, disk.
func (r *TrackRecord) ToList() []interface{} {
	return []interface{}{
		r.Title,
		r.Date,
		r.Time,
		r.Length,
		r.BPM,
		r.UserBPM,
		r.Location,
		r.Stars,
		r.Playing,
		r.Disk,
	}
}
