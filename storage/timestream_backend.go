package storage

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/timestreamwrite"
	"github.com/aws/aws-sdk-go-v2/service/timestreamwrite/types"

	"github.com/launix-de/chronostore/schema"
)

// TimestreamBackend forwards persisted points to an AWS Timestream
// table instead of writing local day files. It has no local read path:
// Query always fails, since Timestream is queried
// with its own SQL dialect, out of scope here. Writes are sent
// immediately; Commit is a no-op since Timestream's WriteRecords call
// is itself the durability boundary.
type TimestreamBackend struct {
	client   *timestreamwrite.Client
	database string
	table    string

	descriptors map[string]*schema.Descriptor
}

func NewTimestreamBackend(s SettingsT) (*TimestreamBackend, error) {
	if s.TSDatabase == "" || s.TSTable == "" {
		return nil, &ConfigError{Reason: "timestream backend requires TIME_SERIES_TIMESTREAM_DATABASE and TIME_SERIES_TIMESTREAM_TABLE"}
	}
	var opts []func(*config.LoadOptions) error
	if s.AWSRegion != "" {
		opts = append(opts, config.WithRegion(s.AWSRegion))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("chronostore: loading AWS config: %w", err)
	}
	return &TimestreamBackend{
		client:      timestreamwrite.NewFromConfig(cfg),
		database:    s.TSDatabase,
		table:       s.TSTable,
		descriptors: make(map[string]*schema.Descriptor),
	}, nil
}

func (b *TimestreamBackend) PrepareType(d *schema.Descriptor) error {
	b.descriptors[d.Table] = d
	return nil
}

// Persist translates p into a single Timestream record: every
// dimension becomes a types.Dimension, and every non-dimension field
// becomes its own multi-measure value.
func (b *TimestreamBackend) Persist(p schema.Point) error {
	d := p.Descriptor
	if _, ok := b.descriptors[d.Table]; !ok {
		return &ConfigError{Reason: fmt.Sprintf("table %q was never prepared", d.Table)}
	}

	dims := make([]types.Dimension, 0, len(d.Dimensions))
	for _, name := range d.Dimensions {
		dims = append(dims, types.Dimension{
			Name:  aws.String(name),
			Value: aws.String(toPathValue(p.Values[name])),
		})
	}

	measures := make([]types.MeasureValue, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name == "timestamp" || d.IsDimension(f.Name) {
			continue
		}
		measures = append(measures, types.MeasureValue{
			Name:  aws.String(f.Name),
			Value: aws.String(toStringFallback(p.Values[f.Name])),
			Type:  types.MeasureValueTypeVarchar,
		})
	}

	record := types.Record{
		Dimensions:       dims,
		MeasureName:      aws.String(d.Table),
		MeasureValueType: types.MeasureValueTypeMulti,
		MeasureValues:    measures,
		Time:             aws.String(fmt.Sprintf("%d", p.Timestamp.UnixMilli())),
		TimeUnit:         types.TimeUnitMilliseconds,
	}

	_, err := b.client.WriteRecords(context.Background(), &timestreamwrite.WriteRecordsInput{
		DatabaseName: aws.String(b.database),
		TableName:    aws.String(b.table),
		Records:      []types.Record{record},
	})
	if err != nil {
		return fmt.Errorf("chronostore: timestream write: %w", err)
	}
	return nil
}

func (b *TimestreamBackend) Query(table string, dimensions map[string]any, start time.Time, end *time.Time) (iter.Seq2[schema.Point, error], error) {
	return nil, &ConfigError{Reason: "timestream backend does not support Query; use the Timestream query API directly"}
}

func (b *TimestreamBackend) Commit() error {
	return nil
}
