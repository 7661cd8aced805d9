package jsonutil

import (
	"bytes"
	"encoding/json"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/bidforge/bidforge/errortypes"
)

var comma = []byte(",")[0]

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Unmarshal unmarshals a byte slice into the specified data structure.
func Unmarshal(data []byte, v interface{}) error {
	err := jsonCodec.Unmarshal(data, v)
	if err != nil {
		return &errortypes.FailedToUnmarshal{
			Message: err.Error(),
		}
	}
	return nil
}

// Marshal marshals a data structure into a byte slice.
func Marshal(v interface{}) ([]byte, error) {
	data, err := jsonCodec.Marshal(v)
	if err != nil {
		return nil, &errortypes.FailedToMarshal{
			Message: err.Error(),
		}
	}
	return data, nil
}

func findElementIndexes(extension []byte, elementName string) (bool, int64, int64, error) {
	found := false
	buf := bytes.NewBuffer(extension)
	dec := json.NewDecoder(buf)
	var startIndex int64
	var i interface{}
	for {
		token, err := dec.Token()
		if err == io.EOF {
			// io.EOF is a successful end
			break
		}
		if err != nil {
			return false, -1, -1, err
		}

		if token == elementName {
			err := dec.Decode(&i)
			if err != nil {
				return false, -1, -1, err
			}
			found = true
			endIndex := dec.InputOffset()

			if dec.More() {
				//if there were other elements before
				if extension[startIndex] == comma {
					startIndex++
				}

				for {
					//structure has more elements, need to find index of comma
					if extension[endIndex] == comma {
						endIndex++
						break
					}
					endIndex++
				}
			}
			return found, startIndex, endIndex, nil
		} else {
			startIndex = dec.InputOffset()
		}

	}

	return false, -1, -1, nil
}

// DropElement removes the named top-level or nested element from the JSON document.
func DropElement(extension []byte, elementName string) ([]byte, error) {
	found, startIndex, endIndex, err := findElementIndexes(extension, elementName)
	if found {
		extension = append(extension[:startIndex], extension[endIndex:]...)
	}
	return extension, err
}
