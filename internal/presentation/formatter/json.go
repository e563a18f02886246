package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Format(obs model.Observations) error {
	data, err := sonic.ConfigStd.MarshalIndent(Rows(obs), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
