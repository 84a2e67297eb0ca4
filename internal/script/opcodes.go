package script

// Unknown is the mnemonic given to opcodes missing from the table
const Unknown = "UNKNOWN"

// SubScriptStart is the opcode that separates sub-scripts in an entity
const SubScriptStart int16 = -255

var mnemonics = map[int16]string{
	1:  "WAIT",
	2:  "JMP",
	3:  "JMP_IF",
	4:  "JMP_IF_NOT",
	5:  "CALL",
	6:  "RETURN",
	7:  "SET_VAR",
	8:  "ADD_VAR",
	9:  "SUB_VAR",
	10: "TEST_VAR",
	11: "SET_FLAG",
	12: "CLEAR_FLAG",
	13: "TEST_FLAG",
	14: "TEST_STORY",
	15: "TEST_ITEM",
	16: "TEST_PARTY",
	17: "TEST_VEHICLE",
	18: "TEST_REGION",
	19: "TEST_TRIGGER",
	20: "TEST_BUTTON",

	32: "SHOW_TEXT",
	33: "SHOW_LOCATION",
	34: "ASK",
	35: "CLOSE_WINDOW",
	36: "WAIT_WINDOW",

	48: "SET_CAMERA",
	49: "CAMERA_FOLLOW",
	50: "FADE_IN",
	51: "FADE_OUT",
	52: "SHAKE",

	64: "MOVE_MODEL",
	65: "TURN_MODEL",
	66: "SHOW_MODEL",
	67: "HIDE_MODEL",
	68: "ANIMATE",
	69: "SET_POSITION",
	70: "BOARD_VEHICLE",
	71: "LEAVE_VEHICLE",

	80: "ENCOUNTER",
	81: "DISABLE_ENCOUNTERS",
	82: "ENABLE_ENCOUNTERS",
	83: "ENTER_FIELD",
	84: "ENTER_BATTLE",
	85: "PLAY_MUSIC",
	86: "STOP_MUSIC",
	87: "PLAY_SOUND",
	88: "GIVE_ITEM",
	89: "SAVE_POINT",
}

// Mnemonic resolves an opcode to its name, or Unknown
func Mnemonic(code int16) string {
	if m, ok := mnemonics[code]; ok {
		return m
	}
	return Unknown
}
