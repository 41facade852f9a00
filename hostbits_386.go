package mywr

const hostBits = 32
