package models

// ResponseBucket is the closed normalisation vocabulary for DDQ responses.
type ResponseBucket string

const (
	BucketYes     ResponseBucket = "yes"
	BucketNo      ResponseBucket = "no"
	BucketPartial ResponseBucket = "partial"
	BucketUnknown ResponseBucket = "unknown"
	BucketNA      ResponseBucket = "na"
	BucketOther   ResponseBucket = "other"
)

// SignalAnswer is the resolved value for one named signal: the best matching
// answer row with its normalised bucket and parsed numeric value. Derived,
// never stored; resolution is pure over an AnswerStore snapshot.
type SignalAnswer struct {
	Signal      string         `json:"signal"`
	Sheet       string         `json:"sheet"`
	QuestionID  string         `json:"question_id"`
	RawResponse string         `json:"raw_response"`
	Bucket      ResponseBucket `json:"response_norm"`
	Confidence  string         `json:"confidence"`
	Narrative   string         `json:"narrative"`
	Citations   []string       `json:"citations"`
	Numeric     *float64       `json:"numeric,omitempty"`
}

// NumericOrZero returns the parsed numeric value, defaulting to 0 for
// threshold arithmetic when the response had no parseable number.
func (s *SignalAnswer) NumericOrZero() float64 {
	if s == nil || s.Numeric == nil {
		return 0
	}
	return *s.Numeric
}
