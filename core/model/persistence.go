package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// FormatVersion は保存形式のバージョン
const FormatVersion = 1

// header はgobストリームの先頭に書かれる識別情報
type header struct {
	Kind    string
	Version int
}

// SaveModelToWriter はモデルのスナップショットをio.Writerに保存する
//
// パラメータ:
//   - kind: スナップショットの種類（読み込み時に照合される）
//   - snapshot: 保存する値（gobでエンコード可能な構造体）
//   - w: 保存先のWriter
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
func SaveModelToWriter(kind string, snapshot interface{}, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(header{Kind: kind, Version: FormatVersion}); err != nil {
		return errors.Wrap(err, "failed to encode header")
	}
	if err := encoder.Encode(snapshot); err != nil {
		return errors.Wrapf(err, "failed to encode %s", kind)
	}
	return nil
}

// LoadModelFromReader はio.Readerからスナップショットを読み込む
//
// パラメータ:
//   - kind: 期待するスナップショットの種類
//   - snapshot: 読み込み先（ポインタ）
//   - r: 読み込み元のReader
//
// 戻り値:
//   - error: 種類・バージョンの不一致、またはデコード失敗時のエラー
func LoadModelFromReader(kind string, snapshot interface{}, r io.Reader) error {
	decoder := gob.NewDecoder(r)

	var h header
	if err := decoder.Decode(&h); err != nil {
		return errors.Wrap(err, "failed to decode header")
	}
	if h.Kind != kind {
		return errors.NewValidationError("kind", "snapshot kind mismatch, expected "+kind, h.Kind)
	}
	if h.Version != FormatVersion {
		return errors.NewValidationError("version", "unsupported snapshot version", h.Version)
	}
	if err := decoder.Decode(snapshot); err != nil {
		return errors.Wrapf(err, "failed to decode %s", kind)
	}
	return nil
}

// SaveModel はスナップショットをファイルに保存する
//
// 使用例:
//
//	err := model.SaveModel("eof", snapshot, "model.gob")
func SaveModel(kind string, snapshot interface{}, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	return SaveModelToWriter(kind, snapshot, file)
}

// LoadModel はファイルからスナップショットを読み込む
func LoadModel(kind string, snapshot interface{}, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadModelFromReader(kind, snapshot, file)
}
